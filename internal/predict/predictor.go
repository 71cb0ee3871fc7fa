// Package predict turns form inputs into a salary estimate: validation, the
// model call, currency conversion, derived metrics, charts and the report.
package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kalambet/salarycast/internal/dataset"
	"github.com/kalambet/salarycast/internal/pipeline"
)

// DefaultDelay is the pause before a result is produced. It is cosmetic.
const DefaultDelay = time.Second

// Model is the frozen pipeline. Implemented by *pipeline.Pipeline.
type Model interface {
	Predict(f pipeline.Frame) ([]float64, error)
}

// Input is one submitted form.
type Input struct {
	Age        int
	Gender     string
	Education  string
	JobTitle   string
	Experience int
	Currency   string
	ShowCharts bool
}

// DefaultInput holds the form's initial values.
func DefaultInput() Input {
	return Input{
		Age:        30,
		Gender:     dataset.Genders[0],
		Education:  "Bachelor",
		JobTitle:   dataset.JobTitles[0],
		Experience: 5,
		Currency:   DefaultCurrency.Label,
		ShowCharts: true,
	}
}

// Result is everything the presentation layer shows for one prediction.
type Result struct {
	Input    Input
	Raw      float64
	Currency Currency
	Salary   Breakdown
	Display  Formatted
	Scatter  *ChartConfig
	Pie      *ChartConfig
	Report   Report
}

// Predictor serves predictions from a model loaded once per process. It holds
// no mutable state, so one instance is shared by all requests.
type Predictor struct {
	model  Model
	delay  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Predictor)

// WithDelay overrides DefaultDelay. Zero disables the pause.
func WithDelay(d time.Duration) Option { return func(p *Predictor) { p.delay = d } }

// WithClock overrides time.Now (for tests).
func WithClock(now func() time.Time) Option { return func(p *Predictor) { p.now = now } }

func WithLogger(l *zap.Logger) Option { return func(p *Predictor) { p.logger = l } }

func New(model Model, opts ...Option) *Predictor {
	p := &Predictor{
		model:  model,
		delay:  DefaultDelay,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Predict validates in, waits the cosmetic delay, runs the model on a one-row
// frame and derives the displayed figures. Failed checks return a
// *ValidationError without touching the model.
func (p *Predictor) Predict(ctx context.Context, in Input) (Result, error) {
	if msgs := Check(in.Age, in.Experience); len(msgs) > 0 {
		return Result{}, &ValidationError{Messages: msgs}
	}
	cur, ok := LookupCurrency(in.Currency)
	if !ok {
		return Result{}, &ValidationError{Messages: []string{fmt.Sprintf("Unsupported currency %q", in.Currency)}}
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	frame := pipeline.NewFrame(dataset.FeatureRow(in.Age, in.Gender, in.Education, in.JobTitle, in.Experience))
	out, err := p.model.Predict(frame)
	if err != nil {
		return Result{}, fmt.Errorf("running model: %w", err)
	}
	if len(out) != 1 {
		return Result{}, fmt.Errorf("model returned %d values for one row", len(out))
	}
	raw := out[0]

	salary := Derive(cur.Convert(raw))
	res := Result{
		Input:    in,
		Raw:      raw,
		Currency: cur,
		Salary:   salary,
		Display:  salary.Format(cur.Symbol()),
		Report: Report{
			ID:             uuid.New(),
			PredictionDate: p.now(),
			Age:            in.Age,
			Gender:         in.Gender,
			Education:      in.Education,
			JobTitle:       in.JobTitle,
			Experience:     in.Experience,
			Predicted:      raw,
			Currency:       cur.Label,
			Converted:      salary.Annual,
		},
	}
	if in.ShowCharts {
		scatter, pie := ScatterChart(in.Experience, raw), PieChart()
		res.Scatter, res.Pie = &scatter, &pie
	}

	p.logger.Info("prediction completed",
		zap.String("report_id", res.Report.ID.String()),
		zap.Int("age", in.Age),
		zap.String("job_title", in.JobTitle),
		zap.Float64("raw", raw),
		zap.String("currency", cur.Code),
	)
	return res, nil
}
