// Package report exports a computed run as XLSX, PDF or JSON.
package report

import (
	"fmt"
	"time"

	"energy-multiplier/internal/analysis"
	"energy-multiplier/internal/pipeline"
)

// Meta labels an export.
type Meta struct {
	Year     int
	Zone     string
	ZoneName string
	// Unit labels energy columns, e.g. "kWh".
	Unit        string
	GeneratedAt time.Time
}

func (m Meta) unit() string {
	if m.Unit == "" {
		return "kWh"
	}
	return m.Unit
}

func (m Meta) zoneLabel() string {
	if m.ZoneName == "" || m.ZoneName == m.Zone {
		return m.Zone
	}
	return fmt.Sprintf("%s (%s)", m.Zone, m.ZoneName)
}

// DefaultFileName is the workbook name used when no output path is given.
func DefaultFileName(year int) string {
	return fmt.Sprintf("Report_Energia_%d.xlsx", year)
}

// MonthRow is one line of the monthly summary.
type MonthRow struct {
	Month           string   `json:"month"`
	Energy          float64  `json:"energy"`
	CostHourly      float64  `json:"cost_hourly"`
	CostQuarterHour *float64 `json:"cost_quarter_hour,omitempty"`
	AveragePrice    float64  `json:"average_price"`
}

func monthRow(m analysis.MonthTotal) MonthRow {
	return MonthRow{
		Month:           m.Month,
		Energy:          m.Energy,
		CostHourly:      m.CostHourly,
		CostQuarterHour: m.CostQuarterHour,
		AveragePrice:    m.AveragePrice(),
	}
}

// CoverageSummary is the JSON view of a run's coverage.
type CoverageSummary struct {
	Days            int      `json:"days"`
	Hours           int      `json:"hours"`
	PricedHours     int      `json:"priced_hours"`
	GapHours        int      `json:"gap_hours"`
	MissingDays     []string `json:"missing_days,omitempty"`
	QuarterHourGaps int      `json:"quarter_hour_gaps"`
	Message         string   `json:"message"`
}

// Summary is the JSON view of a run.
type Summary struct {
	Year           int             `json:"year"`
	Zone           string          `json:"zone"`
	QuarterHour    bool            `json:"quarter_hour"`
	Months         []MonthRow      `json:"months"`
	Total          MonthRow        `json:"total"`
	Coverage       CoverageSummary `json:"coverage"`
	DroppedRows    DroppedRows     `json:"dropped_rows"`
	DetailRowCount int             `json:"detail_rows"`
}

// DroppedRows counts source rows skipped while reading.
type DroppedRows struct {
	Curve       int `json:"curve"`
	Hourly      int `json:"hourly_prices"`
	QuarterHour int `json:"quarter_hour_prices"`
}

// NewSummary condenses an outcome. out.Result must be set.
func NewSummary(out *pipeline.Outcome, meta Meta) Summary {
	s := Summary{
		Year:     meta.Year,
		Zone:     meta.Zone,
		Months:   []MonthRow{},
		Total:    monthRow(out.Totals),
		Coverage: coverage(out),
		DroppedRows: DroppedRows{
			Curve:       out.CurveDropped,
			Hourly:      out.HourlyDropped,
			QuarterHour: out.QuarterDropped,
		},
	}
	if out.Result != nil {
		s.QuarterHour = out.Result.QuarterHour
		s.DetailRowCount = len(out.Result.Rows)
	}
	for _, m := range out.Monthly.Ordered() {
		s.Months = append(s.Months, monthRow(m))
	}
	return s
}

func coverage(out *pipeline.Outcome) CoverageSummary {
	if out.Result == nil {
		return CoverageSummary{}
	}
	c := out.Result.Coverage
	cs := CoverageSummary{
		Days:            c.Days,
		Hours:           c.Hours,
		PricedHours:     c.PricedHours,
		GapHours:        c.GapCount(),
		QuarterHourGaps: len(c.QuarterHourGaps),
		Message:         c.String(),
	}
	for _, d := range c.MissingDays {
		cs.MissingDays = append(cs.MissingDays, d.ISO())
	}
	return cs
}
