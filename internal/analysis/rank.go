package analysis

import (
	"errors"
	"sort"

	"energy-multiplier/internal/costing"
	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"
)

// ZoneCost is the cost of one curve priced in one zone.
type ZoneCost struct {
	Zone            string
	Energy          float64
	CostHourly      float64
	CostQuarterHour *float64
	Gaps            int
	Stats           ZoneStats
}

// RankZones prices the curve in every zone of the hourly series and sorts the
// zones by hourly cost, cheapest first. Zones yielding no rows are left out.
func RankZones(curve model.LoadCurve, set prices.Set, opts costing.Options) ([]ZoneCost, error) {
	eng := costing.New(opts)
	zones := set.Hourly().Zones()
	out := make([]ZoneCost, 0, len(zones))
	for _, z := range zones {
		res, err := eng.Allocate(curve, set, z)
		if errors.Is(err, model.ErrNoMatchingData) {
			logger.Debug("rank: zone has no matching prices", "zone", z)
			continue
		}
		if err != nil {
			return nil, err
		}
		total := Aggregate(res.Rows).Total(z)
		out = append(out, ZoneCost{
			Zone:            z,
			Energy:          total.Energy,
			CostHourly:      total.CostHourly,
			CostQuarterHour: total.CostQuarterHour,
			Gaps:            res.Coverage.GapCount(),
			Stats:           ComputeZoneStats(set.Hourly(), z),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CostHourly < out[j].CostHourly
	})
	return out, nil
}
