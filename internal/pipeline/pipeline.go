package pipeline

import (
	"fmt"
)

// ColumnTransformer standardizes the numeric columns and one-hot encodes the
// categorical columns of a frame, emitting numeric features first.
type ColumnTransformer struct {
	Schema  Schema
	Scaler  *StandardScaler
	Encoder *OneHotEncoder
}

func NewColumnTransformer(schema Schema) *ColumnTransformer {
	return &ColumnTransformer{
		Schema:  schema,
		Scaler:  NewStandardScaler(),
		Encoder: NewOneHotEncoder(),
	}
}

func (t *ColumnTransformer) Fit(f Frame) error {
	num, err := f.numericMatrix(t.Schema.Numeric)
	if err != nil {
		return err
	}
	cat, err := f.categoricalMatrix(t.Schema.Categorical)
	if err != nil {
		return err
	}
	if err := t.Scaler.Fit(num); err != nil {
		return err
	}
	return t.Encoder.Fit(cat)
}

func (t *ColumnTransformer) Transform(f Frame) ([][]float64, error) {
	num, err := f.numericMatrix(t.Schema.Numeric)
	if err != nil {
		return nil, err
	}
	cat, err := f.categoricalMatrix(t.Schema.Categorical)
	if err != nil {
		return nil, err
	}
	scaled, err := t.Scaler.Transform(num)
	if err != nil {
		return nil, err
	}
	encoded, err := t.Encoder.Transform(cat)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, f.Len())
	for i := range out {
		row := make([]float64, 0, len(scaled[i])+len(encoded[i]))
		row = append(row, scaled[i]...)
		out[i] = append(row, encoded[i]...)
	}
	return out, nil
}

// FeatureNames lists the transformed feature names in output order.
func (t *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, len(t.Schema.Numeric)+t.Encoder.Width())
	for _, c := range t.Schema.Numeric {
		names = append(names, "num__"+c)
	}
	for j, c := range t.Schema.Categorical {
		if j >= len(t.Encoder.Categories) {
			break
		}
		for _, v := range t.Encoder.Categories[j] {
			names = append(names, "cat__"+c+"_"+v)
		}
	}
	return names
}

// Pipeline chains the column transformer and the regressor. Once fitted it is
// never mutated, so a single instance can serve any number of callers.
type Pipeline struct {
	Preprocessor *ColumnTransformer
	Regressor    *LinearRegression
}

// New returns an unfitted pipeline over schema.
func New(schema Schema) *Pipeline {
	return &Pipeline{
		Preprocessor: NewColumnTransformer(schema),
		Regressor:    NewLinearRegression(),
	}
}

// Fit estimates scaler statistics, encoder vocabulary and regression
// coefficients from the training frame.
func (p *Pipeline) Fit(f Frame, y []float64) error {
	if f.Len() != len(y) {
		return fmt.Errorf("pipeline: %d rows but %d targets", f.Len(), len(y))
	}
	if err := p.Preprocessor.Fit(f); err != nil {
		return fmt.Errorf("fitting preprocessor: %w", err)
	}
	X, err := p.Preprocessor.Transform(f)
	if err != nil {
		return fmt.Errorf("transforming training data: %w", err)
	}
	if err := p.Regressor.Fit(X, y); err != nil {
		return fmt.Errorf("fitting regressor: %w", err)
	}
	return nil
}

// Predict returns one estimate per row of f.
func (p *Pipeline) Predict(f Frame) ([]float64, error) {
	X, err := p.Preprocessor.Transform(f)
	if err != nil {
		return nil, err
	}
	return p.Regressor.Predict(X)
}

// FeatureNames lists the regressor's input features.
func (p *Pipeline) FeatureNames() []string {
	return p.Preprocessor.FeatureNames()
}
