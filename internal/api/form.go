package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kalambet/salarycast/internal/predict"
)

// Input widget bounds. They are wider than what validation accepts, so a
// value inside them but outside the valid range is reported inline rather
// than rejected.
const (
	ageFieldMin        = 18
	ageFieldMax        = 100
	experienceFieldMin = 0
	experienceFieldMax = 50
)

// parseInput reads the submitted form. Unknown categorical values are passed
// through untouched; the encoder maps them to zeros.
func parseInput(r *http.Request) (predict.Input, error) {
	if err := r.ParseForm(); err != nil {
		return predict.Input{}, err
	}

	age, err := intField(r, "age", ageFieldMin, ageFieldMax)
	if err != nil {
		return predict.Input{}, err
	}
	exp, err := intField(r, "experience", experienceFieldMin, experienceFieldMax)
	if err != nil {
		return predict.Input{}, err
	}

	in := predict.Input{
		Age:        age,
		Experience: exp,
		ShowCharts: r.PostForm.Get("show_charts") != "",
	}
	fields := []struct {
		name string
		dst  *string
	}{
		{"gender", &in.Gender},
		{"education", &in.Education},
		{"job_title", &in.JobTitle},
		{"currency", &in.Currency},
	}
	for _, f := range fields {
		v := strings.TrimSpace(r.PostForm.Get(f.name))
		if v == "" {
			return predict.Input{}, fmt.Errorf("%s is required", f.name)
		}
		*f.dst = v
	}
	return in, nil
}

func intField(r *http.Request, name string, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.PostForm.Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return v, nil
}
