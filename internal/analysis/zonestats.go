package analysis

import (
	"math"
	"sort"

	"energy-multiplier/internal/prices"
)

// ZoneStats is a price summary of one zone over a series.
type ZoneStats struct {
	Zone  string
	Count int

	Min  float64
	Max  float64
	Mean float64
	P05  float64
	P95  float64

	SpreadP95P05 float64
}

// ComputeZoneStats summarizes every price of zone in s.
func ComputeZoneStats(s *prices.Series, zone string) ZoneStats {
	st := ZoneStats{Zone: zone}
	vals := s.Values(zone)
	if len(vals) == 0 {
		return st
	}
	st.Count = len(vals)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, v := range vals {
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	st.Min = minv
	st.Max = maxv
	st.Mean = sum / float64(len(vals))
	st.P05 = percentileSorted(vals, 0.05)
	st.P95 = percentileSorted(vals, 0.95)
	st.SpreadP95P05 = st.P95 - st.P05
	return st
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
