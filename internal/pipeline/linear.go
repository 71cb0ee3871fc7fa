package pipeline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearRegression is an ordinary least-squares regressor with an intercept.
type LinearRegression struct {
	Coef      []float64
	Intercept float64
	fit       bool
}

func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

// Fit solves for the coefficients on centered data and recovers the intercept
// from the column means. Rank-deficient inputs (one-hot blocks are collinear
// with the intercept) get the minimum-norm solution.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("regressor: empty input")
	}
	if len(X) != len(y) {
		return fmt.Errorf("regressor: %d rows but %d targets", len(X), len(y))
	}
	r, c := len(X), len(X[0])

	xMean := make([]float64, c)
	for _, row := range X {
		if len(row) != c {
			return errors.New("regressor: ragged input")
		}
		for j, v := range row {
			xMean[j] += v
		}
	}
	for j := range xMean {
		xMean[j] /= float64(r)
	}
	yMean := stat.Mean(y, nil)

	a := mat.NewDense(r, c, nil)
	b := mat.NewVecDense(r, nil)
	for i, row := range X {
		for j, v := range row {
			a.Set(i, j, v-xMean[j])
		}
		b.SetVec(i, y[i]-yMean)
	}

	coef := make([]float64, c)
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return errors.New("regressor: SVD did not converge")
	}
	rcond := float64(max(r, c)) * machineEpsilon
	if rank := svd.Rank(rcond); rank > 0 {
		var w mat.VecDense
		svd.SolveVecTo(&w, b, rank)
		for j := range coef {
			coef[j] = w.AtVec(j)
		}
	}

	intercept := yMean
	for j, v := range coef {
		intercept -= v * xMean[j]
	}

	m.Coef, m.Intercept = coef, intercept
	m.fit = true
	return nil
}

func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fit {
		return nil, fmt.Errorf("regressor: %w", ErrNotFitted)
	}
	pred := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Coef) {
			return nil, fmt.Errorf("regressor: row %d has %d features, want %d", i, len(row), len(m.Coef))
		}
		sum := m.Intercept
		for j, v := range row {
			sum += m.Coef[j] * v
		}
		pred[i] = sum
	}
	return pred, nil
}

func (m *LinearRegression) restore(coef []float64, intercept float64) {
	m.Coef, m.Intercept = coef, intercept
	m.fit = true
}

var machineEpsilon = math.Nextafter(1, 2) - 1
