package costing

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteDetailCSV writes the detail rows to path.
func WriteDetailCSV(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeDetailCSV(f, res)
}

// EncodeDetailCSV writes one line per row. The cost_quarter_hour column is
// present only when quarter-hour pricing applied to the run; an hour whose
// quarters were all unpriced leaves the cell empty.
func EncodeDetailCSV(out io.Writer, res *Result) error {
	w := csv.NewWriter(out)

	header := []string{
		"date",
		"hour",
		"energy",
		"cost_hourly",
	}
	if res.QuarterHour {
		header = append(header, "cost_quarter_hour")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range res.Rows {
		row := []string{
			r.Date.ISO(),
			strconv.Itoa(r.Hour),
			fmtFloat(r.Energy),
			fmtFloat(r.CostHourly),
		}
		if res.QuarterHour {
			cell := ""
			if r.CostQuarterHour != nil {
				cell = fmtFloat(*r.CostQuarterHour)
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
