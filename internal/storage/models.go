package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the artifact holds no fitted model.
var ErrNotFound = errors.New("not found")

// NumericColumn carries the frozen scaler statistics of one numeric feature.
type NumericColumn struct {
	Name string
	Mean float64
	Std  float64
}

// CategoricalColumn carries the encoder vocabulary of one categorical feature,
// in encoding order.
type CategoricalColumn struct {
	Name   string
	Values []string
}

// Artifact is the persisted form of a fitted pipeline.
type Artifact struct {
	Numeric      []NumericColumn
	Categorical  []CategoricalColumn
	Coefficients []float64
	Intercept    float64
	Samples      int
	TrainedAt    time.Time
}
