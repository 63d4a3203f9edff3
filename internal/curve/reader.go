// Package curve reads the daily quarter-hour load curve exported by the
// distribution operator: one row per day, a day-first date, then 96 energy
// columns in chronological order.
package curve

import (
	"fmt"
	"strings"

	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/schema"
)

// Report describes what Parse kept and skipped.
type Report struct {
	Rows    int
	Dropped int
	// DroppedRows are 1-based data-row numbers (header excluded).
	DroppedRows []int
}

// Parse converts a curve table into a LoadCurve.
//
// A missing day column, fewer than 96 columns after it in the header, or a
// data row shorter than that is a *model.CurveFormatError. A row whose day or
// any value fails to parse, or holds a negative value, is dropped and counted.
func Parse(t model.Table) (model.LoadCurve, Report, error) {
	var rep Report
	cols, err := schema.DetectCurveColumns(t.Headers)
	if err != nil {
		return nil, rep, &model.CurveFormatError{Reason: err.Error()}
	}
	if have := len(t.Headers) - cols.FirstValue; have < model.QuartersPerDay {
		return nil, rep, &model.CurveFormatError{
			Reason: fmt.Sprintf("header has %d energy columns after %q, want %d", have, cols.Date.Name, model.QuartersPerDay),
		}
	}

	out := make(model.LoadCurve, 0, len(t.Rows))
	for i, row := range t.Rows {
		n := i + 1
		if blank(row) {
			continue
		}
		rep.Rows++
		if have := len(row) - cols.FirstValue; have < model.QuartersPerDay {
			return nil, rep, &model.CurveFormatError{
				Row:    n,
				Reason: fmt.Sprintf("%d energy columns, want %d", have, model.QuartersPerDay),
			}
		}
		day, ok := parseRow(row, cols)
		if !ok {
			rep.Dropped++
			rep.DroppedRows = append(rep.DroppedRows, n)
			continue
		}
		out = append(out, day)
	}
	if rep.Dropped > 0 {
		logger.Warn("curve rows dropped", "source", t.Name, "dropped", rep.Dropped, "rows", rep.Rows)
	}
	return out, rep, nil
}

func parseRow(row []string, cols schema.CurveColumns) (model.CurveDay, bool) {
	var day model.CurveDay
	date, err := model.ParseDayFirst(row[cols.Date.Index])
	if err != nil {
		return day, false
	}
	day.Date = date
	for k := 0; k < model.QuartersPerDay; k++ {
		v, err := model.ParseNumber(row[cols.FirstValue+k])
		if err != nil || v < 0 {
			return day, false
		}
		day.Values[k] = v
	}
	return day, true
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
