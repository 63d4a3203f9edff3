package analysis

import (
	"energy-multiplier/internal/costing"
	"energy-multiplier/internal/model"
)

// DayTotal is the per-day view of the detail rows.
type DayTotal struct {
	Date            model.DateKey
	Hours           int
	Energy          float64
	CostHourly      float64
	CostQuarterHour *float64
}

// Daily sums rows per day, keeping the order days first appear in.
func Daily(rows []costing.CostDetailRow) []DayTotal {
	var out []DayTotal
	idx := map[model.DateKey]int{}
	for _, r := range rows {
		i, ok := idx[r.Date]
		if !ok {
			i = len(out)
			idx[r.Date] = i
			out = append(out, DayTotal{Date: r.Date})
		}
		d := &out[i]
		d.Hours++
		d.Energy += r.Energy
		d.CostHourly += r.CostHourly
		d.CostQuarterHour = addOptional(d.CostQuarterHour, r.CostQuarterHour)
	}
	return out
}
