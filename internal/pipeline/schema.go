package pipeline

import (
	"errors"
	"fmt"
)

// Feature columns shared by the trainer and the predictor. Inference frames
// must use exactly these names or the pipeline refuses them.
const (
	ColAge        = "Age"
	ColGender     = "Gender"
	ColEducation  = "Education Level"
	ColJobTitle   = "Job Title"
	ColExperience = "Years of Experience"
)

// ErrMissingColumn is returned when a frame lacks a column the schema expects.
var ErrMissingColumn = errors.New("missing column")

// Schema describes the structure of a feature frame.
type Schema struct {
	Numeric     []string
	Categorical []string
}

// FeatureSchema is the layout the salary pipeline is trained and served with.
var FeatureSchema = Schema{
	Numeric:     []string{ColAge, ColExperience},
	Categorical: []string{ColGender, ColEducation, ColJobTitle},
}

// Row is a single observation keyed by column name.
type Row struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Frame is a column-oriented feature table.
type Frame struct {
	Numeric     map[string][]float64
	Categorical map[string][]string
	rows        int
}

// NewFrame builds a frame from rows. Columns are taken from the union of the
// rows' keys; a row missing a column leaves a zero value in that column.
func NewFrame(rows ...Row) Frame {
	f := Frame{
		Numeric:     make(map[string][]float64),
		Categorical: make(map[string][]string),
		rows:        len(rows),
	}
	for i, r := range rows {
		for k, v := range r.Numeric {
			col, ok := f.Numeric[k]
			if !ok {
				col = make([]float64, len(rows))
				f.Numeric[k] = col
			}
			col[i] = v
		}
		for k, v := range r.Categorical {
			col, ok := f.Categorical[k]
			if !ok {
				col = make([]string, len(rows))
				f.Categorical[k] = col
			}
			col[i] = v
		}
	}
	return f
}

// Len returns the number of rows in the frame.
func (f Frame) Len() int { return f.rows }

// numericMatrix extracts the named numeric columns as a row-major matrix.
func (f Frame) numericMatrix(cols []string) ([][]float64, error) {
	out := make([][]float64, f.rows)
	for i := range out {
		out[i] = make([]float64, len(cols))
	}
	for j, name := range cols {
		col, ok := f.Numeric[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		for i := range out {
			out[i][j] = col[i]
		}
	}
	return out, nil
}

// categoricalMatrix extracts the named categorical columns as a row-major matrix.
func (f Frame) categoricalMatrix(cols []string) ([][]string, error) {
	out := make([][]string, f.rows)
	for i := range out {
		out[i] = make([]string, len(cols))
	}
	for j, name := range cols {
		col, ok := f.Categorical[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		for i := range out {
			out[i][j] = col[i]
		}
	}
	return out, nil
}
