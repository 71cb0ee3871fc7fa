package pipeline

import (
	"errors"
	"fmt"
	"sort"
)

// OneHotEncoder encodes categorical columns as indicator vectors over the
// vocabulary seen at fit time. Values outside the vocabulary encode to an
// all-zero block instead of failing.
type OneHotEncoder struct {
	// Categories holds the sorted vocabulary of each column.
	Categories [][]string

	index []map[string]int
}

func NewOneHotEncoder() *OneHotEncoder { return &OneHotEncoder{} }

func (e *OneHotEncoder) Fit(X [][]string) error {
	if len(X) == 0 {
		return errors.New("encoder: empty input")
	}
	c := len(X[0])
	cats := make([][]string, c)
	for j := 0; j < c; j++ {
		seen := map[string]struct{}{}
		for _, row := range X {
			if _, ok := seen[row[j]]; !ok {
				seen[row[j]] = struct{}{}
				cats[j] = append(cats[j], row[j])
			}
		}
		sort.Strings(cats[j])
	}
	e.restore(cats)
	return nil
}

// Width is the number of output features.
func (e *OneHotEncoder) Width() int {
	n := 0
	for _, c := range e.Categories {
		n += len(c)
	}
	return n
}

func (e *OneHotEncoder) Transform(X [][]string) ([][]float64, error) {
	if e.index == nil {
		return nil, fmt.Errorf("encoder: %w", ErrNotFitted)
	}
	width := e.Width()
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(e.Categories) {
			return nil, fmt.Errorf("encoder: row %d has %d columns, want %d", i, len(row), len(e.Categories))
		}
		vec := make([]float64, width)
		offset := 0
		for j, v := range row {
			if k, ok := e.index[j][v]; ok {
				vec[offset+k] = 1
			}
			offset += len(e.Categories[j])
		}
		out[i] = vec
	}
	return out, nil
}

// restore installs a vocabulary and rebuilds the lookup index.
func (e *OneHotEncoder) restore(cats [][]string) {
	e.Categories = cats
	e.index = make([]map[string]int, len(cats))
	for j, col := range cats {
		m := make(map[string]int, len(col))
		for k, v := range col {
			m[v] = k
		}
		e.index[j] = m
	}
}
