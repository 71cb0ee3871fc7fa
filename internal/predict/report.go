package predict

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ReportColumns is the fixed header of the exported CSV.
var ReportColumns = []string{
	"Prediction_Date",
	"Age",
	"Gender",
	"Education",
	"Job_Title",
	"Experience",
	"Predicted_Salary",
	"Currency",
	"Converted_Salary",
}

const (
	reportDateLayout     = "2006-01-02 15:04:05"
	reportFilenameLayout = "20060102_150405"
)

// Report is the record of one prediction, used only for the CSV export.
type Report struct {
	ID             uuid.UUID
	PredictionDate time.Time
	Age            int
	Gender         string
	Education      string
	JobTitle       string
	Experience     int
	Predicted      float64
	Currency       string
	Converted      float64
}

// Filename is the download name, timestamped to the second.
func (r Report) Filename() string {
	return "salary_prediction_" + r.PredictionDate.Format(reportFilenameLayout) + ".csv"
}

// Record renders the report as a CSV row in ReportColumns order. Floats use
// the shortest representation that parses back to the same value.
func (r Report) Record() []string {
	return []string{
		r.PredictionDate.Format(reportDateLayout),
		strconv.Itoa(r.Age),
		r.Gender,
		r.Education,
		r.JobTitle,
		strconv.Itoa(r.Experience),
		strconv.FormatFloat(r.Predicted, 'f', -1, 64),
		r.Currency,
		strconv.FormatFloat(r.Converted, 'f', -1, 64),
	}
}

// WriteCSV writes the header and the single report row.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportColumns); err != nil {
		return err
	}
	if err := cw.Write(r.Record()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
