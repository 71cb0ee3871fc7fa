// Package dataset synthesizes the labeled salary data the pipeline is
// trained on. The labels come from a fixed formula, not observations.
package dataset

import (
	"math/rand/v2"

	"github.com/kalambet/salarycast/internal/pipeline"
)

const (
	DefaultSamples = 300

	// Age is drawn from [MinAge, MaxAge) and experience from [0, MaxExperience).
	MinAge        = 22
	MaxAge        = 60
	MaxExperience = 35

	BaseSalary            = 250000
	AgeCoefficient        = 3000
	ExperienceCoefficient = 15000
	NoiseSigma            = 50000
)

var (
	Genders         = []string{"Male", "Female"}
	EducationLevels = []string{"High School", "Bachelor", "Master", "PhD"}
	JobTitles       = []string{"Developer", "Data Scientist", "Manager", "Analyst", "Engineer"}
)

// EducationOffsets and JobOffsets are the per-category salary contributions.
var (
	EducationOffsets = map[string]float64{
		"High School": 0,
		"Bachelor":    50000,
		"Master":      100000,
		"PhD":         200000,
	}
	JobOffsets = map[string]float64{
		"Developer":      200000,
		"Data Scientist": 400000,
		"Manager":        500000,
		"Analyst":        150000,
		"Engineer":       250000,
	}
)

// Sample is one synthesized training record. Noise is the random term that
// was added to the deterministic salary.
type Sample struct {
	Age        int
	Gender     string
	Education  string
	JobTitle   string
	Experience int
	Salary     float64
	Noise      float64
}

// DeterministicSalary is the noise-free part of the label.
func DeterministicSalary(age, experience int, education, jobTitle string) float64 {
	return BaseSalary +
		float64(age)*AgeCoefficient +
		float64(experience)*ExperienceCoefficient +
		EducationOffsets[education] +
		JobOffsets[jobTitle]
}

// NewRand returns the generator used for synthesis. A zero seed draws a
// random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate draws n samples.
func Generate(n int, rng *rand.Rand) []Sample {
	out := make([]Sample, n)
	for i := range out {
		s := Sample{
			Age:        MinAge + rng.IntN(MaxAge-MinAge),
			Gender:     Genders[rng.IntN(len(Genders))],
			Education:  EducationLevels[rng.IntN(len(EducationLevels))],
			JobTitle:   JobTitles[rng.IntN(len(JobTitles))],
			Experience: rng.IntN(MaxExperience),
			Noise:      rng.NormFloat64() * NoiseSigma,
		}
		s.Salary = DeterministicSalary(s.Age, s.Experience, s.Education, s.JobTitle) + s.Noise
		out[i] = s
	}
	return out
}

// FeatureRow lays out one observation in the pipeline's feature schema.
// Both training and inference go through it so the column names cannot drift.
func FeatureRow(age int, gender, education, jobTitle string, experience int) pipeline.Row {
	return pipeline.Row{
		Numeric: map[string]float64{
			pipeline.ColAge:        float64(age),
			pipeline.ColExperience: float64(experience),
		},
		Categorical: map[string]string{
			pipeline.ColGender:    gender,
			pipeline.ColEducation: education,
			pipeline.ColJobTitle:  jobTitle,
		},
	}
}

// Frame converts samples into a training frame and target vector.
func Frame(samples []Sample) (pipeline.Frame, []float64) {
	rows := make([]pipeline.Row, len(samples))
	y := make([]float64, len(samples))
	for i, s := range samples {
		rows[i] = FeatureRow(s.Age, s.Gender, s.Education, s.JobTitle, s.Experience)
		y[i] = s.Salary
	}
	return pipeline.NewFrame(rows...), y
}
