package costing

import (
	"fmt"

	"energy-multiplier/internal/model"
)

// CostDetailRow is one (day, hour) row of output.
// This is the primary artifact of a computation; rows are never modified after
// the engine emits them.
type CostDetailRow struct {
	Date model.DateKey
	Hour int

	// Energy is the sum of the hour's four quarter-hour values.
	Energy float64

	// CostHourly is Energy priced at the hourly price.
	CostHourly float64

	// CostQuarterHour is each quarter-hour priced at its own period price,
	// summed over the hour. Nil when no quarter-hour pricing applies.
	CostQuarterHour *float64
}

// GapKind tells which table missed a bucket.
type GapKind string

const (
	GapDay         GapKind = "day"
	GapHour        GapKind = "hour"
	GapQuarterHour GapKind = "quarter_hour"
)

// Gap is a curve bucket with no matching price.
type Gap struct {
	Date model.DateKey
	// Hour is 1..24.
	Hour int
	// Period is 1..96 for quarter-hour gaps, 0 otherwise.
	Period int
	Kind   GapKind
}

// Coverage accounts for every curve bucket the engine looked at.
type Coverage struct {
	Days int
	// Hours is the number of (day, hour) buckets in the curve.
	Hours       int
	PricedHours int
	// MissingDays are curve days with no hourly price at all.
	MissingDays []model.DateKey
	// Gaps has one entry per unpriced (day, hour), including the 24 of each missing day.
	Gaps []Gap
	// QuarterHourGaps has one entry per unpriced quarter-hour period of a
	// priced hour, only when quarter-hour pricing applies.
	QuarterHourGaps []Gap
}

// GapCount is the number of unpriced (day, hour) buckets.
func (c Coverage) GapCount() int { return len(c.Gaps) }

// Complete reports whether every hour was priced.
func (c Coverage) Complete() bool { return len(c.Gaps) == 0 && len(c.QuarterHourGaps) == 0 }

func (c Coverage) String() string {
	s := fmt.Sprintf("%d of %d hours had no price match", len(c.Gaps), c.Hours)
	if len(c.MissingDays) > 0 {
		s += fmt.Sprintf(" (%d days without prices)", len(c.MissingDays))
	}
	if len(c.QuarterHourGaps) > 0 {
		s += fmt.Sprintf("; %d quarter-hours had no quarter-hour price", len(c.QuarterHourGaps))
	}
	return s
}

type Result struct {
	Rows     []CostDetailRow
	Coverage Coverage
	// QuarterHour is true when the quarter-hour cost column applies to this run.
	QuarterHour bool
}

// TotalEnergy sums Energy over all rows.
func (r *Result) TotalEnergy() float64 {
	sum := 0.0
	for _, row := range r.Rows {
		sum += row.Energy
	}
	return sum
}

// TotalCostHourly sums CostHourly over all rows.
func (r *Result) TotalCostHourly() float64 {
	sum := 0.0
	for _, row := range r.Rows {
		sum += row.CostHourly
	}
	return sum
}
