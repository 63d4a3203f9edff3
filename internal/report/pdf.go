package report

import (
	"bytes"
	"fmt"
	"time"

	"energy-multiplier/internal/pipeline"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders the monthly summary as a one-page statement.
func BuildPDF(out *pipeline.Outcome, meta Meta) ([]byte, error) {
	if out == nil || out.Result == nil {
		return nil, fmt.Errorf("no result to export")
	}
	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	qh := out.Result.QuarterHour
	unit := meta.unit()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, fmt.Sprintf("Energy cost report %d", meta.Year))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Zone: %s", meta.zoneLabel()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generated.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Coverage: %s", out.Result.Coverage.String()))
	pdf.Ln(8)

	widths := []float64{30, 40, 40, 40}
	header := []string{"Month", "Energy (" + unit + ")", "Cost (hourly)", "Avg price"}
	if qh {
		widths = []float64{26, 36, 36, 40, 36}
		header = []string{"Month", "Energy (" + unit + ")", "Cost (hourly)", "Cost (quarter-hour)", "Avg price"}
	}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	months := append(out.Monthly.Ordered(), out.Totals)
	for i, m := range months {
		if i == len(months)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		cells := []string{
			m.Month,
			fmt.Sprintf("%.3f", m.Energy),
			fmt.Sprintf("%.2f", m.CostHourly),
		}
		if qh {
			q := "-"
			if m.CostQuarterHour != nil {
				q = fmt.Sprintf("%.2f", *m.CostQuarterHour)
			}
			cells = append(cells, q)
		}
		cells = append(cells, fmt.Sprintf("%.4f", m.AveragePrice()))
		for j, c := range cells {
			align := "R"
			if j == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[j], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
