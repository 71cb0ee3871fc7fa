// Package trainer synthesizes the salary dataset, fits the pipeline on all of
// it and writes the model artifact.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kalambet/salarycast/internal/dataset"
	"github.com/kalambet/salarycast/internal/pipeline"
)

type Options struct {
	Samples int
	// Seed 0 draws a random seed; the one used is reported in the Summary.
	Seed uint64
	// ModelPath receives the artifact. Any previous file is replaced.
	ModelPath string
	// DatasetPath, when set, also receives the synthesized rows as CSV.
	DatasetPath string
	Now         func() time.Time
	Logger      *zap.Logger
}

type Summary struct {
	Samples   int
	Seed      uint64
	Features  []string
	Intercept float64
	ModelPath string
	TrainedAt time.Time
}

// Run trains once. There is no hold-out split and no evaluation.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Samples < 1 {
		return Summary{}, fmt.Errorf("samples must be positive, got %d", opts.Samples)
	}
	if opts.ModelPath == "" {
		return Summary{}, errors.New("model path is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	samples := dataset.Generate(opts.Samples, dataset.NewRand(seed))
	logger.Info("dataset synthesized", zap.Int("samples", len(samples)), zap.Uint64("seed", seed))

	if opts.DatasetPath != "" {
		if err := writeDataset(opts.DatasetPath, samples); err != nil {
			return Summary{}, err
		}
		logger.Info("dataset written", zap.String("path", opts.DatasetPath))
	}

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	frame, y := dataset.Frame(samples)
	p := pipeline.New(pipeline.FeatureSchema)
	if err := p.Fit(frame, y); err != nil {
		return Summary{}, fmt.Errorf("fitting pipeline: %w", err)
	}

	trainedAt := opts.Now().UTC()
	if err := p.Save(opts.ModelPath, len(samples), trainedAt); err != nil {
		return Summary{}, fmt.Errorf("writing model artifact: %w", err)
	}
	logger.Info("model artifact written",
		zap.String("path", opts.ModelPath),
		zap.Int("features", len(p.FeatureNames())),
		zap.Float64("intercept", p.Regressor.Intercept),
	)

	return Summary{
		Samples:   len(samples),
		Seed:      seed,
		Features:  p.FeatureNames(),
		Intercept: p.Regressor.Intercept,
		ModelPath: opts.ModelPath,
		TrainedAt: trainedAt,
	}, nil
}

func writeDataset(path string, samples []dataset.Sample) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dataset dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}
	if err := dataset.WriteCSV(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("writing dataset: %w", err)
	}
	return f.Close()
}
