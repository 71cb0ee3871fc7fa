package pipeline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned when a step is used before Fit.
var ErrNotFitted = errors.New("not fitted")

// StandardScaler rescales each column to zero mean and unit variance using
// statistics captured at fit time.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit computes the per-column mean and population standard deviation.
// A constant column gets a std of 1 so Transform maps it to zero.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scaler: empty input")
	}
	c := len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, len(X))
	for j := 0; j < c; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j], s.Std[j] = mean, std
	}
	s.fit = true
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, fmt.Errorf("scaler: %w", ErrNotFitted)
	}
	Y := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(row), len(s.Mean))
		}
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = (v - s.Mean[j]) / s.Std[j]
		}
		Y[i] = out
	}
	return Y, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// restore installs previously fitted statistics.
func (s *StandardScaler) restore(mean, std []float64) {
	s.Mean, s.Std = mean, std
	s.fit = true
}
