package predict

// Both charts are fixed illustrations, not aggregates of real data. Only the
// "You" point in the scatter depends on the request.

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a labeled value; scatter points also carry X.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Value float64 `json:"value"`
}

type referenceSalary struct {
	Role       string
	Salary     float64
	Experience int
}

var referenceSalaries = []referenceSalary{
	{Role: "Developer", Salary: 800000, Experience: 3},
	{Role: "Data Scientist", Salary: 1200000, Experience: 5},
	{Role: "Manager", Salary: 1500000, Experience: 10},
	{Role: "Analyst", Salary: 700000, Experience: 2},
	{Role: "Engineer", Salary: 900000, Experience: 4},
}

var roleDistribution = []ChartPoint{
	{Label: "Developer", Value: 50},
	{Label: "Data Scientist", Value: 20},
	{Label: "Manager", Value: 15},
	{Label: "Analyst", Value: 10},
	{Label: "Engineer", Value: 5},
}

// YouLabel names the series holding the current prediction.
const YouLabel = "You"

var scatterColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#111827",
}

// RdBu-like sequence for the pie.
var pieColors = []string{"#67001F", "#B2182B", "#D6604D", "#F4A582", "#FDDBC7"}

// ScatterChart plots the reference salaries against experience, one series
// per role, with the raw prediction appended as its own series.
func ScatterChart(experience int, rawPrediction float64) ChartConfig {
	series := make([]ChartSeries, 0, len(referenceSalaries)+1)
	for _, r := range referenceSalaries {
		series = append(series, ChartSeries{
			Name: r.Role,
			Data: []ChartPoint{{Label: r.Role, X: float64(r.Experience), Value: r.Salary}},
		})
	}
	series = append(series, ChartSeries{
		Name: YouLabel,
		Data: []ChartPoint{{Label: YouLabel, X: float64(experience), Value: rawPrediction}},
	})
	return ChartConfig{
		ChartType:  "scatter",
		Title:      "Actual vs Predicted Salary (INR)",
		XAxis:      "Years of Experience",
		YAxis:      "Actual Salary (INR)",
		Series:     series,
		Colors:     assignColors(scatterColors, len(series)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// PieChart shows the fixed job role distribution.
func PieChart() ChartConfig {
	data := make([]ChartPoint, len(roleDistribution))
	copy(data, roleDistribution)
	return ChartConfig{
		ChartType:  "pie",
		Title:      "Job Role Distribution",
		Series:     []ChartSeries{{Name: "Count", Data: data}},
		Colors:     assignColors(pieColors, len(data)),
		ShowLegend: true,
	}
}

func assignColors(palette []string, count int) []string {
	colors := make([]string, count)
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}
