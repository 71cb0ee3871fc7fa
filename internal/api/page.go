package api

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kalambet/salarycast/internal/dataset"
	"github.com/kalambet/salarycast/internal/predict"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type fieldOptions struct {
	Genders    []string
	Educations []string
	JobTitles  []string
	Currencies []string
}

func defaultOptions() fieldOptions {
	currencies := make([]string, len(predict.Currencies))
	for i, c := range predict.Currencies {
		currencies[i] = c.Label
	}
	return fieldOptions{
		Genders:    dataset.Genders,
		Educations: dataset.EducationLevels,
		JobTitles:  dataset.JobTitles,
		Currencies: currencies,
	}
}

type page struct {
	Form    predict.Input
	Options fieldOptions
	Limits  fieldLimits
	Errors  []string
	Blocked string
	Result  *resultView
	You     string
}

type fieldLimits struct {
	AgeMin, AgeMax int
	ExpMin, ExpMax int
}

func newPage(in predict.Input) page {
	return page{
		Form:    in,
		Options: defaultOptions(),
		Limits: fieldLimits{
			AgeMin: ageFieldMin, AgeMax: ageFieldMax,
			ExpMin: experienceFieldMin, ExpMax: experienceFieldMax,
		},
		// Live checks on the initial values so the form opens in the same
		// state it would after a submit.
		Errors: predict.Check(in.Age, in.Experience),
		You:    predict.YouLabel,
	}
}

type resultView struct {
	predict.Result
	CSVHref  template.URL
	Filename string
}

// newResultView embeds the CSV report as a data URI so the download needs no
// second request.
func newResultView(res predict.Result) (*resultView, error) {
	var buf bytes.Buffer
	if err := res.Report.WriteCSV(&buf); err != nil {
		return nil, err
	}
	href := "data:text/csv;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return &resultView{
		Result:   res,
		CSVHref:  template.URL(href),
		Filename: res.Report.Filename(),
	}, nil
}

func renderPage(w http.ResponseWriter, logger *zap.Logger, code int, p page) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, p); err != nil {
		logger.Error("rendering page", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "api_error", "rendering page: %v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}
