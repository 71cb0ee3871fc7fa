package dataset

import (
	"bytes"
	"encoding/csv"
	"math"
	"slices"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateRanges(t *testing.T) {
	samples := Generate(DefaultSamples, NewRand(42))
	if len(samples) != DefaultSamples {
		t.Fatalf("len = %d, want %d", len(samples), DefaultSamples)
	}

	for i, s := range samples {
		if s.Age < MinAge || s.Age >= MaxAge {
			t.Errorf("sample %d: Age = %d, want in [%d,%d)", i, s.Age, MinAge, MaxAge)
		}
		if s.Experience < 0 || s.Experience >= MaxExperience {
			t.Errorf("sample %d: Experience = %d, want in [0,%d)", i, s.Experience, MaxExperience)
		}
		if !slices.Contains(Genders, s.Gender) {
			t.Errorf("sample %d: unexpected Gender %q", i, s.Gender)
		}
		if !slices.Contains(EducationLevels, s.Education) {
			t.Errorf("sample %d: unexpected Education %q", i, s.Education)
		}
		if !slices.Contains(JobTitles, s.JobTitle) {
			t.Errorf("sample %d: unexpected JobTitle %q", i, s.JobTitle)
		}
	}
}

// TestSalaryFormula checks the deterministic component of every label exactly.
func TestSalaryFormula(t *testing.T) {
	for i, s := range Generate(1000, NewRand(7)) {
		want := BaseSalary +
			float64(s.Age)*3000 +
			float64(s.Experience)*15000 +
			EducationOffsets[s.Education] +
			JobOffsets[s.JobTitle]
		if got := DeterministicSalary(s.Age, s.Experience, s.Education, s.JobTitle); got != want {
			t.Fatalf("sample %d: DeterministicSalary = %v, want %v", i, got, want)
		}
		if s.Salary != want+s.Noise {
			t.Fatalf("sample %d: Salary = %v, want %v + noise %v", i, s.Salary, want, s.Noise)
		}
	}
}

func TestDeterministicSalaryKnownValue(t *testing.T) {
	// 250000 + 30*3000 + 5*15000 + 50000 + 200000
	got := DeterministicSalary(30, 5, "Bachelor", "Developer")
	if got != 665000 {
		t.Errorf("DeterministicSalary = %v, want 665000", got)
	}
}

func TestNoiseStatistics(t *testing.T) {
	const n = 20000
	samples := Generate(n, NewRand(2024))

	var sum, sumSq float64
	for _, s := range samples {
		sum += s.Noise
		sumSq += s.Noise * s.Noise
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)

	// Five standard errors of the mean.
	if limit := 5 * NoiseSigma / math.Sqrt(n); math.Abs(mean) > limit {
		t.Errorf("noise mean = %.1f, want |mean| <= %.1f", mean, limit)
	}
	if math.Abs(std-NoiseSigma)/NoiseSigma > 0.05 {
		t.Errorf("noise std = %.1f, want within 5%% of %d", std, NoiseSigma)
	}
}

func TestGenerateSeeded(t *testing.T) {
	a := Generate(50, NewRand(99))
	b := Generate(50, NewRand(99))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different samples (-a +b):\n%s", diff)
	}
}

func TestFrame(t *testing.T) {
	samples := Generate(10, NewRand(1))
	f, y := Frame(samples)

	if f.Len() != 10 || len(y) != 10 {
		t.Fatalf("Frame len = %d, targets = %d, want 10", f.Len(), len(y))
	}
	for i, s := range samples {
		if y[i] != s.Salary {
			t.Errorf("y[%d] = %v, want %v", i, y[i], s.Salary)
		}
		if f.Numeric["Age"][i] != float64(s.Age) {
			t.Errorf("Age[%d] = %v, want %d", i, f.Numeric["Age"][i], s.Age)
		}
		if f.Categorical["Job Title"][i] != s.JobTitle {
			t.Errorf("Job Title[%d] = %q, want %q", i, f.Categorical["Job Title"][i], s.JobTitle)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	samples := Generate(3, NewRand(5))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, samples); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3", len(records))
	}
	want := []string{"Age", "Gender", "Education Level", "Job Title", "Years of Experience", "Salary"}
	if diff := cmp.Diff(want, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	salary, err := strconv.ParseFloat(records[1][5], 64)
	if err != nil {
		t.Fatalf("parsing salary: %v", err)
	}
	if salary != samples[0].Salary {
		t.Errorf("salary = %v, want %v", salary, samples[0].Salary)
	}
}
