package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/kalambet/salarycast/internal/storage"
)

// Artifact exports the fitted state of p.
func (p *Pipeline) Artifact(samples int, trainedAt time.Time) (storage.Artifact, error) {
	pre, reg := p.Preprocessor, p.Regressor
	if !pre.Scaler.fit || pre.Encoder.index == nil || !reg.fit {
		return storage.Artifact{}, fmt.Errorf("pipeline: %w", ErrNotFitted)
	}

	a := storage.Artifact{
		Coefficients: append([]float64(nil), reg.Coef...),
		Intercept:    reg.Intercept,
		Samples:      samples,
		TrainedAt:    trainedAt,
	}
	for j, name := range pre.Schema.Numeric {
		a.Numeric = append(a.Numeric, storage.NumericColumn{
			Name: name,
			Mean: pre.Scaler.Mean[j],
			Std:  pre.Scaler.Std[j],
		})
	}
	for j, name := range pre.Schema.Categorical {
		a.Categorical = append(a.Categorical, storage.CategoricalColumn{
			Name:   name,
			Values: append([]string(nil), pre.Encoder.Categories[j]...),
		})
	}
	return a, nil
}

// FromArtifact rebuilds a fitted pipeline. The feature layout comes from the
// artifact itself; nothing checks it against FeatureSchema.
func FromArtifact(a storage.Artifact) (*Pipeline, error) {
	schema := Schema{}
	mean := make([]float64, 0, len(a.Numeric))
	std := make([]float64, 0, len(a.Numeric))
	for _, c := range a.Numeric {
		schema.Numeric = append(schema.Numeric, c.Name)
		mean = append(mean, c.Mean)
		std = append(std, c.Std)
	}
	cats := make([][]string, 0, len(a.Categorical))
	for _, c := range a.Categorical {
		schema.Categorical = append(schema.Categorical, c.Name)
		cats = append(cats, c.Values)
	}

	p := New(schema)
	p.Preprocessor.Scaler.restore(mean, std)
	p.Preprocessor.Encoder.restore(cats)
	if want := len(schema.Numeric) + p.Preprocessor.Encoder.Width(); want != len(a.Coefficients) {
		return nil, fmt.Errorf("pipeline: artifact has %d coefficients for %d features", len(a.Coefficients), want)
	}
	p.Regressor.restore(a.Coefficients, a.Intercept)
	return p, nil
}

// Save writes the fitted pipeline to a new artifact file at path.
func (p *Pipeline) Save(path string, samples int, trainedAt time.Time) error {
	a, err := p.Artifact(samples, trainedAt)
	if err != nil {
		return err
	}
	store, err := storage.Create(path)
	if err != nil {
		return err
	}
	if err := store.SaveArtifact(a); err != nil {
		store.Close()
		return fmt.Errorf("saving artifact: %w", err)
	}
	return store.Close()
}

// Load reads a fitted pipeline from the artifact file at path.
func Load(path string) (*Pipeline, storage.Artifact, error) {
	store, err := storage.Open(path)
	if err != nil {
		return nil, storage.Artifact{}, err
	}
	defer store.Close()

	a, err := store.LoadArtifact()
	if errors.Is(err, storage.ErrNotFound) {
		return nil, storage.Artifact{}, fmt.Errorf("model artifact %s holds no fitted pipeline", path)
	}
	if err != nil {
		return nil, storage.Artifact{}, fmt.Errorf("loading artifact: %w", err)
	}
	p, err := FromArtifact(a)
	if err != nil {
		return nil, storage.Artifact{}, err
	}
	return p, a, nil
}
