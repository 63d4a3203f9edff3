// Package pipeline runs one cost computation end to end: curve parsing,
// regime gating, allocation, aggregation, metrics and logs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"energy-multiplier/internal/analysis"
	"energy-multiplier/internal/costing"
	"energy-multiplier/internal/curve"
	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/metrics"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"
)

// TotalLabel is the Month of Outcome.Totals.
const TotalLabel = "Totale"

// Params select what one run computes.
type Params struct {
	Year       int
	RegimeYear int
	Zone       string
	// Scale multiplies every energy*price product; 0 means 1.
	Scale float64
}

func (p Params) options() costing.Options {
	return costing.Options{Year: p.Year, RegimeYear: p.RegimeYear, Scale: p.Scale}
}

func (p Params) validate() error {
	if p.Year <= 0 {
		return fmt.Errorf("year is required")
	}
	if p.Zone == "" {
		return fmt.Errorf("zone is required")
	}
	return nil
}

// Inputs are the already read sources of a run.
type Inputs struct {
	Curve  model.Table
	Prices prices.Set
}

// Outcome is everything a run produced. On ErrNoMatchingData it is still
// returned with Coverage filled so callers can report the mismatch.
type Outcome struct {
	Params  Params
	Result  *costing.Result
	Monthly analysis.MonthlySummary
	Daily   []analysis.DayTotal
	Totals  analysis.MonthTotal

	CurveDays      int
	CurveDropped   int
	HourlyDropped  int
	QuarterDropped int
}

// Run computes the cost of in.Curve against in.Prices.
func Run(ctx context.Context, p Params, in Inputs) (out *Outcome, err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultSuccess
		switch {
		case errors.Is(err, model.ErrNoMatchingData):
			result = metrics.ResultNoMatch
		case err != nil:
			result = metrics.ResultError
		}
		metrics.ObserveRun(result, time.Since(start))
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if in.Prices == nil || in.Prices.Hourly() == nil {
		return nil, fmt.Errorf("%w %d", model.ErrNoPriceFile, p.Year)
	}

	set := gateZone(in.Prices, p.Zone)

	lc, rep, err := curve.Parse(in.Curve)
	if err != nil {
		return nil, err
	}
	metrics.AddDropped(metrics.SourceCurve, rep.Dropped)

	out = &Outcome{
		Params:        p,
		CurveDays:     len(lc),
		CurveDropped:  rep.Dropped,
		HourlyDropped: set.Hourly().Dropped(),
	}
	metrics.AddDropped(metrics.SourceHourly, out.HourlyDropped)
	if q, ok := set.(prices.HourlyPlusQuarterHour); ok {
		out.QuarterDropped = q.QuarterHour().Dropped()
		metrics.AddDropped(metrics.SourceQuarter, out.QuarterDropped)
	}

	res, err := costing.New(p.options()).Allocate(lc, set, p.Zone)
	if res != nil {
		out.Result = res
		recordCoverage(res.Coverage)
	}
	if err != nil {
		if errors.Is(err, model.ErrNoMatchingData) {
			logger.Warn("no curve hour matched a price",
				"year", p.Year, "zone", p.Zone, "curve_days", len(lc), "coverage", res.Coverage.String())
			return out, err
		}
		return nil, err
	}

	out.Monthly = analysis.Aggregate(res.Rows)
	out.Daily = analysis.Daily(res.Rows)
	out.Totals = out.Monthly.Total(TotalLabel)

	logger.Info("cost run complete",
		"year", p.Year,
		"zone", p.Zone,
		"rows", len(res.Rows),
		"quarter_hour", res.QuarterHour,
		"energy", out.Totals.Energy,
		"cost_hourly", out.Totals.CostHourly,
		"coverage", res.Coverage.String(),
	)
	return out, nil
}

// gateZone drops a quarter-hour series that does not price zone, so the run
// degrades to hourly-only pricing instead of reporting every quarter as a gap.
func gateZone(set prices.Set, zone string) prices.Set {
	q, ok := set.(prices.HourlyPlusQuarterHour)
	if !ok || q.QuarterHour().HasZone(zone) {
		return set
	}
	logger.Warn("quarter-hour prices lack zone, using hourly prices only",
		"zone", zone, "quarter_hour_zones", q.QuarterHour().Zones())
	return prices.NewSet(q.Hourly(), nil)
}

func recordCoverage(c costing.Coverage) {
	var day, hour int
	for _, g := range c.Gaps {
		if g.Kind == costing.GapDay {
			day++
		} else {
			hour++
		}
	}
	metrics.AddGaps(string(costing.GapDay), day)
	metrics.AddGaps(string(costing.GapHour), hour)
	metrics.AddGaps(string(costing.GapQuarterHour), len(c.QuarterHourGaps))
	if !c.Complete() {
		logger.Warn("coverage gaps", "summary", c.String())
	}
}

// Rank prices the curve in every zone of in.Prices, cheapest first.
func Rank(ctx context.Context, p Params, in Inputs) ([]analysis.ZoneCost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Year <= 0 {
		return nil, fmt.Errorf("year is required")
	}
	if in.Prices == nil || in.Prices.Hourly() == nil {
		return nil, fmt.Errorf("%w %d", model.ErrNoPriceFile, p.Year)
	}
	lc, _, err := curve.Parse(in.Curve)
	if err != nil {
		return nil, err
	}
	ranked, err := analysis.RankZones(lc, in.Prices, p.options())
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%d curve days across %d zones: %w",
			len(lc), len(in.Prices.Hourly().Zones()), model.ErrNoMatchingData)
	}
	logger.Info("zone ranking complete", "year", p.Year, "zones", len(ranked), "cheapest", ranked[0].Zone)
	return ranked, nil
}
