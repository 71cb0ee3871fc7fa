package predict

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kalambet/salarycast/internal/pipeline"
)

// stubModel derives its output from the frame so tests can see which row
// reached the model.
type stubModel struct {
	calls int
	err   error
}

func (m *stubModel) Predict(f pipeline.Frame) ([]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]float64, f.Len())
	for i := range out {
		out[i] = f.Numeric[pipeline.ColAge][i]*10000 + f.Numeric[pipeline.ColExperience][i]*1000 + 0.123
	}
	return out, nil
}

var fixedNow = time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC)

func newTestPredictor(m Model) *Predictor {
	return New(m, WithDelay(0), WithClock(func() time.Time { return fixedNow }))
}

func TestConvert(t *testing.T) {
	raw := 987654.321
	tests := []struct {
		code string
		mult float64
	}{
		{"INR", 1},
		{"USD", 0.012},
		{"EUR", 0.011},
	}
	for _, tt := range tests {
		c, ok := LookupCurrency(tt.code)
		if !ok {
			t.Fatalf("LookupCurrency(%q) not found", tt.code)
		}
		if got := c.Convert(raw); got != raw*tt.mult {
			t.Errorf("%s: Convert = %v, want %v", tt.code, got, raw*tt.mult)
		}
	}
}

func TestDerive(t *testing.T) {
	annual := 11851.85185
	b := Derive(annual)
	if b.Annual != annual || b.Monthly != annual/12 || b.Hourly != annual/(40*52) || b.Daily != annual/365 {
		t.Errorf("Derive(%v) = %+v", annual, b)
	}
}

func TestLookupCurrency(t *testing.T) {
	c, ok := LookupCurrency("$ (USD)")
	if !ok || c.Code != "USD" {
		t.Fatalf("LookupCurrency by label = %+v, %v", c, ok)
	}
	if c.Symbol() != "$" {
		t.Errorf("Symbol = %q, want %q", c.Symbol(), "$")
	}
	if c, ok := LookupCurrency("eur"); !ok || c.Symbol() != "€" {
		t.Errorf("LookupCurrency(eur) = %+v, %v", c, ok)
	}
	if _, ok := LookupCurrency("GBP"); ok {
		t.Error("LookupCurrency(GBP) should fail")
	}
}

func TestFormat(t *testing.T) {
	got := Derive(1234567.891).Format("₹")
	want := Formatted{
		Annual:  "₹ 1,234,567.89",
		Monthly: "₹ 102,880.66",
		Hourly:  "₹ 593.54",
		Daily:   "₹ 3382.38",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format mismatch (-want +got):\n%s", diff)
	}
}

func TestPredict(t *testing.T) {
	m := &stubModel{}
	p := newTestPredictor(m)

	in := Input{Age: 30, Gender: "Male", Education: "Bachelor", JobTitle: "Developer", Experience: 5, Currency: "$ (USD)", ShowCharts: true}
	res, err := p.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	wantRaw := 30*10000 + 5*1000 + 0.123
	if res.Raw != wantRaw {
		t.Errorf("Raw = %v, want %v", res.Raw, wantRaw)
	}
	if res.Salary.Annual != wantRaw*0.012 {
		t.Errorf("Annual = %v, want %v", res.Salary.Annual, wantRaw*0.012)
	}
	if res.Salary.Monthly != res.Salary.Annual/12 {
		t.Errorf("Monthly = %v, want %v", res.Salary.Monthly, res.Salary.Annual/12)
	}
	if res.Display.Annual != "$ 3,660.00" {
		t.Errorf("Display.Annual = %q", res.Display.Annual)
	}

	wantReport := Report{
		ID:             res.Report.ID,
		PredictionDate: fixedNow,
		Age:            30,
		Gender:         "Male",
		Education:      "Bachelor",
		JobTitle:       "Developer",
		Experience:     5,
		Predicted:      wantRaw,
		Currency:       "$ (USD)",
		Converted:      res.Salary.Annual,
	}
	if diff := cmp.Diff(wantReport, res.Report); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}

	if res.Scatter == nil || res.Pie == nil {
		t.Fatal("charts requested but missing")
	}
	last := res.Scatter.Series[len(res.Scatter.Series)-1]
	if last.Name != YouLabel || last.Data[0].X != 5 || last.Data[0].Value != wantRaw {
		t.Errorf("You series = %+v", last)
	}
	if len(res.Scatter.Series) != 6 {
		t.Errorf("scatter series = %d, want 5 reference roles + You", len(res.Scatter.Series))
	}
}

func TestPredictWithoutCharts(t *testing.T) {
	p := newTestPredictor(&stubModel{})

	in := DefaultInput()
	in.ShowCharts = false
	res, err := p.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.Scatter != nil || res.Pie != nil {
		t.Error("charts present although ShowCharts is false")
	}
}

func TestPredictBlockedByValidation(t *testing.T) {
	m := &stubModel{}
	p := newTestPredictor(m)

	in := DefaultInput()
	in.Age = 65
	_, err := p.Predict(context.Background(), in)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(verr.Messages) != 1 || verr.Messages[0] != "Age must be between 18 and 100" {
		t.Errorf("Messages = %v", verr.Messages)
	}
	if m.calls != 0 {
		t.Errorf("model called %d times for invalid input", m.calls)
	}
}

func TestPredictUnknownCurrency(t *testing.T) {
	p := newTestPredictor(&stubModel{})

	in := DefaultInput()
	in.Currency = "£ (GBP)"
	if _, err := p.Predict(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestPredictModelError(t *testing.T) {
	boom := errors.New("boom")
	p := newTestPredictor(&stubModel{err: boom})

	if _, err := p.Predict(context.Background(), DefaultInput()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped model error", err)
	}
}

func TestPredictDelayHonorsCancel(t *testing.T) {
	m := &stubModel{}
	p := New(m, WithDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Predict(ctx, DefaultInput()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if m.calls != 0 {
		t.Errorf("model called %d times after cancel", m.calls)
	}
}

// TestReportRoundTrip exports a prediction and reads the CSV back.
func TestReportRoundTrip(t *testing.T) {
	p := newTestPredictor(&stubModel{})

	in := Input{Age: 41, Gender: "Female", Education: "PhD", JobTitle: "Data Scientist", Experience: 17, Currency: "€ (EUR)"}
	res, err := p.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	var buf bytes.Buffer
	if err := res.Report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}
	if diff := cmp.Diff(ReportColumns, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	row := make(map[string]string, len(ReportColumns))
	for i, col := range records[0] {
		row[col] = records[1][i]
	}

	if row["Prediction_Date"] != "2026-10-19 14:05:09" {
		t.Errorf("Prediction_Date = %q", row["Prediction_Date"])
	}
	if row["Age"] != "41" || row["Experience"] != "17" {
		t.Errorf("Age/Experience = %q/%q", row["Age"], row["Experience"])
	}
	if row["Gender"] != in.Gender || row["Education"] != in.Education || row["Job_Title"] != in.JobTitle {
		t.Errorf("categorical fields = %q/%q/%q", row["Gender"], row["Education"], row["Job_Title"])
	}
	if row["Currency"] != "€ (EUR)" {
		t.Errorf("Currency = %q", row["Currency"])
	}

	predicted, err := strconv.ParseFloat(row["Predicted_Salary"], 64)
	if err != nil || predicted != res.Raw {
		t.Errorf("Predicted_Salary = %q (%v), want %v", row["Predicted_Salary"], err, res.Raw)
	}
	converted, err := strconv.ParseFloat(row["Converted_Salary"], 64)
	if err != nil || converted != res.Salary.Annual {
		t.Errorf("Converted_Salary = %q (%v), want %v", row["Converted_Salary"], err, res.Salary.Annual)
	}
}

func TestReportFilename(t *testing.T) {
	r := Report{PredictionDate: fixedNow}
	if got := r.Filename(); got != "salary_prediction_20261019_140509.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestPieChartIsFixed(t *testing.T) {
	pie := PieChart()
	if pie.ChartType != "pie" || len(pie.Series) != 1 {
		t.Fatalf("PieChart = %+v", pie)
	}
	var total float64
	for _, pt := range pie.Series[0].Data {
		total += pt.Value
	}
	if total != 100 {
		t.Errorf("role counts sum to %v, want 100", total)
	}
}
