package trainer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kalambet/salarycast/internal/dataset"
	"github.com/kalambet/salarycast/internal/pipeline"
)

var trainedAt = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func runTrainer(t *testing.T, seed uint64, datasetPath string) (Summary, string) {
	t.Helper()
	modelPath := filepath.Join(t.TempDir(), "model.db")
	sum, err := Run(context.Background(), Options{
		Samples:     dataset.DefaultSamples,
		Seed:        seed,
		ModelPath:   modelPath,
		DatasetPath: datasetPath,
		Now:         func() time.Time { return trainedAt },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sum, modelPath
}

func predictDefault(t *testing.T, path string) float64 {
	t.Helper()
	p, _, err := pipeline.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := p.Predict(pipeline.NewFrame(dataset.FeatureRow(30, "Male", "Bachelor", "Developer", 5)))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	return out[0]
}

func TestRunWritesArtifact(t *testing.T) {
	sum, path := runTrainer(t, 7, "")

	if sum.Samples != dataset.DefaultSamples {
		t.Errorf("Samples = %d, want %d", sum.Samples, dataset.DefaultSamples)
	}
	if sum.Seed != 7 {
		t.Errorf("Seed = %d, want 7", sum.Seed)
	}
	if len(sum.Features) != 13 {
		t.Errorf("Features = %d, want 13", len(sum.Features))
	}

	_, a, err := pipeline.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Samples != dataset.DefaultSamples {
		t.Errorf("artifact samples = %d", a.Samples)
	}
	if !a.TrainedAt.Equal(trainedAt) {
		t.Errorf("artifact trained at %s, want %s", a.TrainedAt, trainedAt)
	}
	if a.Intercept != sum.Intercept {
		t.Errorf("artifact intercept = %v, summary = %v", a.Intercept, sum.Intercept)
	}
}

// TestRunSeeded checks that one seed always yields the same model.
func TestRunSeeded(t *testing.T) {
	_, first := runTrainer(t, 11, "")
	_, second := runTrainer(t, 11, "")

	a, b := predictDefault(t, first), predictDefault(t, second)
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

// TestRunPlausible checks the fitted model lands near the generating formula.
// With 300 noisy samples the estimate should be within a few noise sigmas.
func TestRunPlausible(t *testing.T) {
	_, path := runTrainer(t, 3, "")

	got := predictDefault(t, path)
	want := dataset.DeterministicSalary(30, 5, "Bachelor", "Developer")
	if d := got - want; d > 3*dataset.NoiseSigma || d < -3*dataset.NoiseSigma {
		t.Errorf("prediction %v is too far from %v", got, want)
	}
}

func TestRunRandomSeedReported(t *testing.T) {
	sum, _ := runTrainer(t, 0, "")
	if sum.Seed == 0 {
		t.Error("seed 0 should be replaced by a drawn seed")
	}
}

func TestRunWritesDataset(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "data", "salaries.csv")
	runTrainer(t, 5, csvPath)

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("reading dataset: %v", err)
	}
	if lines := bytes.Count(raw, []byte("\n")); lines != dataset.DefaultSamples+1 {
		t.Errorf("dataset has %d lines, want %d", lines, dataset.DefaultSamples+1)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	if _, err := Run(context.Background(), Options{Samples: 0, ModelPath: "x.db"}); err == nil {
		t.Error("expected error for zero samples")
	}
	if _, err := Run(context.Background(), Options{Samples: 10}); err == nil {
		t.Error("expected error for empty model path")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "model.db")
	_, err := Run(ctx, Options{Samples: 10, Seed: 1, ModelPath: path})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cancelled run should not write an artifact")
	}
}
