package costing

import (
	"errors"
	"fmt"

	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"
)

// DefaultRegimeYear is the first year settled per quarter-hour.
const DefaultRegimeYear = 2025

// Options configure one allocation.
type Options struct {
	// Year is the year being computed; it drives the regime gate.
	Year int
	// RegimeYear is the first quarter-hour settlement year. Zero means DefaultRegimeYear.
	RegimeYear int
	// Scale multiplies every energy*price product, e.g. 0.001 for a kWh curve
	// priced in EUR/MWh. Zero means 1.
	Scale float64
}

func (o Options) regimeYear() int {
	if o.RegimeYear == 0 {
		return DefaultRegimeYear
	}
	return o.RegimeYear
}

func (o Options) scale() float64 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

// QuarterHourActive reports whether quarter-hour pricing may apply to Year.
func (o Options) QuarterHourActive() bool { return o.Year >= o.regimeYear() }

type Engine struct {
	opts Options
}

func New(opts Options) *Engine { return &Engine{opts: opts} }

// Allocate prices every (day, hour) of the curve.
//
// For each curve day with hourly prices, each hour's energy is the sum of its
// four quarter-hour values, priced at the hourly price. From the regime year
// on, when the set carries a quarter-hour series, each quarter-hour is also
// priced at its own period price and the four products are reported as an
// additional cost. Unpriced buckets are skipped and recorded in Coverage.
//
// If no row is produced the returned Result still carries Coverage and the
// error wraps model.ErrNoMatchingData.
func (e *Engine) Allocate(curve model.LoadCurve, set prices.Set, zone string) (*Result, error) {
	if set == nil || set.Hourly() == nil {
		return nil, errors.New("hourly price series is nil")
	}
	if zone == "" {
		return nil, errors.New("market zone is empty")
	}
	hourly := set.Hourly()
	if !hourly.HasZone(zone) {
		return nil, fmt.Errorf("%w: %q (have %v)", model.ErrUnknownZone, zone, hourly.Zones())
	}

	var quarter *prices.Series
	switch s := set.(type) {
	case prices.HourlyOnly:
	case prices.HourlyPlusQuarterHour:
		if e.opts.QuarterHourActive() {
			quarter = s.QuarterHour()
		}
	default:
		return nil, fmt.Errorf("unsupported price set %T", set)
	}

	scale := e.opts.scale()
	res := &Result{
		Rows:        make([]CostDetailRow, 0, len(curve)*model.HoursPerDay),
		QuarterHour: quarter != nil,
	}
	cov := &res.Coverage

	for _, day := range curve {
		cov.Days++
		cov.Hours += model.HoursPerDay

		if !hourly.HasDay(day.Date) {
			cov.MissingDays = append(cov.MissingDays, day.Date)
			for h := 1; h <= model.HoursPerDay; h++ {
				cov.Gaps = append(cov.Gaps, Gap{Date: day.Date, Hour: h, Kind: GapDay})
			}
			continue
		}

		for h := 1; h <= model.HoursPerDay; h++ {
			quarters := day.Hour(h)
			energy := 0.0
			for _, v := range quarters {
				energy += v
			}

			price, ok := hourly.Lookup(day.Date, h, zone)
			if !ok {
				cov.Gaps = append(cov.Gaps, Gap{Date: day.Date, Hour: h, Kind: GapHour})
				continue
			}
			cov.PricedHours++

			row := CostDetailRow{
				Date:       day.Date,
				Hour:       h,
				Energy:     energy,
				CostHourly: energy * price * scale,
			}

			if quarter != nil {
				sum, priced := 0.0, 0
				for q, v := range quarters {
					period := (h-1)*model.QuartersPerHour + q + 1
					qp, ok := quarter.Lookup(day.Date, period, zone)
					if !ok {
						cov.QuarterHourGaps = append(cov.QuarterHourGaps, Gap{
							Date: day.Date, Hour: h, Period: period, Kind: GapQuarterHour,
						})
						continue
					}
					sum += v * qp * scale
					priced++
				}
				if priced > 0 {
					row.CostQuarterHour = &sum
				}
			}

			res.Rows = append(res.Rows, row)
		}
	}

	if len(res.Rows) == 0 {
		return res, fmt.Errorf("%d curve days, %d hourly price days: %w",
			cov.Days, len(hourly.Days()), model.ErrNoMatchingData)
	}
	return res, nil
}
