// Package analysis aggregates detail rows and compares market zones.
package analysis

import (
	"sort"

	"energy-multiplier/internal/costing"
)

// MonthTotal sums the numeric fields of the detail rows of one month.
// The hour index is not summed.
type MonthTotal struct {
	Month      string
	Energy     float64
	CostHourly float64
	// CostQuarterHour is nil when no row of the month carried a quarter-hour cost.
	CostQuarterHour *float64
}

// AveragePrice is the energy-weighted hourly cost per energy unit, 0 without energy.
func (m MonthTotal) AveragePrice() float64 {
	if m.Energy == 0 {
		return 0
	}
	return m.CostHourly / m.Energy
}

// MonthlySummary maps "YYYY-MM" to its totals. Months without rows are absent.
type MonthlySummary map[string]MonthTotal

// Aggregate groups rows by the year-month of their date.
func Aggregate(rows []costing.CostDetailRow) MonthlySummary {
	out := MonthlySummary{}
	for _, r := range rows {
		m := r.Date.Month()
		t := out[m]
		t.Month = m
		t.Energy += r.Energy
		t.CostHourly += r.CostHourly
		t.CostQuarterHour = addOptional(t.CostQuarterHour, r.CostQuarterHour)
		out[m] = t
	}
	return out
}

// Months returns the month keys in ascending order.
func (s MonthlySummary) Months() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ordered returns the totals in month order.
func (s MonthlySummary) Ordered() []MonthTotal {
	out := make([]MonthTotal, 0, len(s))
	for _, k := range s.Months() {
		out = append(out, s[k])
	}
	return out
}

// Total sums every month. Its Month is label.
func (s MonthlySummary) Total(label string) MonthTotal {
	t := MonthTotal{Month: label}
	for _, m := range s.Ordered() {
		t.Energy += m.Energy
		t.CostHourly += m.CostHourly
		t.CostQuarterHour = addOptional(t.CostQuarterHour, m.CostQuarterHour)
	}
	return t
}

// HasQuarterHour reports whether any month carries a quarter-hour cost.
func (s MonthlySummary) HasQuarterHour() bool {
	for _, m := range s {
		if m.CostQuarterHour != nil {
			return true
		}
	}
	return false
}

func addOptional(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	sum := *v
	if acc != nil {
		sum += *acc
	}
	return &sum
}
