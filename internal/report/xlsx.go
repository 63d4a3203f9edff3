package report

import (
	"bytes"
	"fmt"

	"energy-multiplier/internal/costing"
	"energy-multiplier/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetDetail   = "Dettaglio"
	SheetSummary  = "Riepilogo"
	SheetDaily    = "Giornaliero"
	SheetCoverage = "Copertura"
)

// BuildXLSX renders the detail rows, the monthly summary, the daily totals and
// the coverage report, one sheet each. Quarter-hour columns appear only when
// quarter-hour pricing applied to the run.
func BuildXLSX(out *pipeline.Outcome, meta Meta) ([]byte, error) {
	if out == nil || out.Result == nil {
		return nil, fmt.Errorf("no result to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDetail); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetSummary, SheetDaily, SheetCoverage} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	w := sheetWriter{f: f, bold: bold}
	qh := out.Result.QuarterHour
	unit := meta.unit()

	// Detail
	header := []any{"Data", "Ora", "Energia (" + unit + ")", "Costo orario"}
	if qh {
		header = append(header, "Costo quartorario")
	}
	w.header(SheetDetail, header)
	for i, r := range out.Result.Rows {
		row := []any{r.Date.ISO(), r.Hour, r.Energy, r.CostHourly}
		if qh {
			row = append(row, optional(r.CostQuarterHour))
		}
		w.row(SheetDetail, i+2, row)
	}

	// Monthly summary
	header = []any{"Mese", "Energia (" + unit + ")", "Costo orario"}
	if qh {
		header = append(header, "Costo quartorario")
	}
	header = append(header, "Prezzo medio")
	w.header(SheetSummary, header)
	n := 2
	for _, m := range append(out.Monthly.Ordered(), out.Totals) {
		row := []any{m.Month, m.Energy, m.CostHourly}
		if qh {
			row = append(row, optional(m.CostQuarterHour))
		}
		row = append(row, m.AveragePrice())
		w.row(SheetSummary, n, row)
		n++
	}

	// Daily totals
	header = []any{"Data", "Ore", "Energia (" + unit + ")", "Costo orario"}
	if qh {
		header = append(header, "Costo quartorario")
	}
	w.header(SheetDaily, header)
	for i, d := range out.Daily {
		row := []any{d.Date.ISO(), d.Hours, d.Energy, d.CostHourly}
		if qh {
			row = append(row, optional(d.CostQuarterHour))
		}
		w.row(SheetDaily, i+2, row)
	}

	// Coverage
	c := out.Result.Coverage
	info := [][]any{
		{"Anno", meta.Year},
		{"Zona", meta.zoneLabel()},
		{"Giorni curva", c.Days},
		{"Ore curva", c.Hours},
		{"Ore prezzate", c.PricedHours},
		{"Ore senza prezzo", c.GapCount()},
		{"Quarti d'ora senza prezzo", len(c.QuarterHourGaps)},
		{"Righe curva scartate", out.CurveDropped},
		{"Righe prezzi scartate", out.HourlyDropped + out.QuarterDropped},
		{"Esito", c.String()},
	}
	for i, row := range info {
		w.row(SheetCoverage, i+1, row)
	}
	start := len(info) + 2
	w.headerAt(SheetCoverage, start, []any{"Data", "Ora", "Periodo", "Tipo"})
	n = start + 1
	gaps := append(append([]costing.Gap(nil), c.Gaps...), c.QuarterHourGaps...)
	for _, g := range gaps {
		var period any = ""
		if g.Period > 0 {
			period = g.Period
		}
		w.row(SheetCoverage, n, []any{g.Date.ISO(), g.Hour, period, string(g.Kind)})
		n++
	}

	if w.err != nil {
		return nil, w.err
	}
	_ = f.SetColWidth(SheetDetail, "A", "E", 16)
	_ = f.SetColWidth(SheetSummary, "A", "E", 18)
	_ = f.SetColWidth(SheetDaily, "A", "E", 16)
	_ = f.SetColWidth(SheetCoverage, "A", "B", 26)
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

// sheetWriter keeps the first error of a sequence of row writes.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) row(sheet string, n int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) header(sheet string, values []any) { w.headerAt(sheet, 1, values) }

func (w *sheetWriter) headerAt(sheet string, n int, values []any) {
	w.row(sheet, n, values)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, n)
	last, _ := excelize.CoordinatesToCellName(len(values), n)
	w.err = w.f.SetCellStyle(sheet, first, last, w.bold)
}
