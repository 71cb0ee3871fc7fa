package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/kalambet/salarycast/internal/pipeline"
)

var csvHeader = []string{
	pipeline.ColAge,
	pipeline.ColGender,
	pipeline.ColEducation,
	pipeline.ColJobTitle,
	pipeline.ColExperience,
	"Salary",
}

// WriteCSV dumps samples with a header row in the training column order.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{
			strconv.Itoa(s.Age),
			s.Gender,
			s.Education,
			s.JobTitle,
			strconv.Itoa(s.Experience),
			strconv.FormatFloat(s.Salary, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
