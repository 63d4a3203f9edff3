// Package prices holds day-ahead price series keyed by (day, period).
package prices

import (
	"sort"
	"strings"

	"energy-multiplier/internal/model"
	"energy-multiplier/internal/schema"
)

type key struct {
	day    model.DateKey
	period int
}

// Series is a price series at one resolution. Each (day, period, zone) holds at
// most one price: the first one seen. It is read-only once built.
type Series struct {
	resolution model.Resolution
	zones      []string
	points     map[key]map[string]float64
	days       map[model.DateKey]struct{}

	dropped    int
	duplicates int
}

func (s *Series) Resolution() model.Resolution { return s.resolution }

// Zones lists zone names in first-seen column order.
func (s *Series) Zones() []string { return append([]string(nil), s.zones...) }

// HasZone reports whether zone is a price column. Matching ignores case.
func (s *Series) HasZone(zone string) bool {
	return s.canonicalZone(zone) != ""
}

func (s *Series) canonicalZone(zone string) string {
	for _, z := range s.zones {
		if strings.EqualFold(z, zone) {
			return z
		}
	}
	return ""
}

// Len is the number of distinct (day, period) keys.
func (s *Series) Len() int { return len(s.points) }

// Dropped is the number of source rows skipped for an unparseable day or period.
func (s *Series) Dropped() int { return s.dropped }

// Duplicates is the number of rows whose (day, period) key was already present.
func (s *Series) Duplicates() int { return s.duplicates }

// HasDay reports whether any period of day is priced.
func (s *Series) HasDay(day model.DateKey) bool {
	_, ok := s.days[day]
	return ok
}

// Days returns the priced days in ascending order.
func (s *Series) Days() []model.DateKey {
	out := make([]model.DateKey, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns the price of zone at (day, period). The boolean is false when
// no price exists; absence is never reported as a zero price.
func (s *Series) Lookup(day model.DateKey, period int, zone string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	byZone, ok := s.points[key{day: day, period: period}]
	if !ok {
		return 0, false
	}
	if p, ok := byZone[zone]; ok {
		return p, true
	}
	if z := s.canonicalZone(zone); z != "" {
		p, ok := byZone[z]
		return p, ok
	}
	return 0, false
}

// Values returns every price of zone, ordered by day then period.
func (s *Series) Values(zone string) []float64 {
	z := s.canonicalZone(zone)
	if z == "" {
		return nil
	}
	keys := make([]key, 0, len(s.points))
	for k := range s.points {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].period < keys[j].period
	})
	out := make([]float64, 0, len(keys))
	for _, k := range keys {
		if p, ok := s.points[k][z]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Builder accumulates rows from one or more concatenated tables of the same
// resolution into a Series.
type Builder struct {
	s *Series
}

func NewBuilder(res model.Resolution) *Builder {
	return &Builder{s: &Series{
		resolution: res,
		points:     make(map[key]map[string]float64),
		days:       make(map[model.DateKey]struct{}),
	}}
}

// Add indexes rows using the located columns. Rows with an unparseable day or an
// out-of-range period are dropped and counted. A blank or non-numeric zone cell
// leaves that zone unpriced for the key. Later duplicates never override.
func (b *Builder) Add(rows [][]string, cols schema.PriceColumns) {
	s := b.s
	for _, z := range cols.Zones {
		if s.canonicalZone(z.Name) == "" {
			s.zones = append(s.zones, z.Name)
		}
	}
	maxPeriod := s.resolution.PeriodsPerDay()

	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		day, err := model.ParseDateKey(model.Cell(row, cols.Date.Index))
		if err != nil {
			s.dropped++
			continue
		}
		period, err := model.ParsePeriod(model.Cell(row, cols.Period.Index))
		if err != nil || period < 1 || period > maxPeriod {
			s.dropped++
			continue
		}

		k := key{day: day, period: period}
		byZone, exists := s.points[k]
		if exists {
			s.duplicates++
		} else {
			byZone = make(map[string]float64, len(cols.Zones))
			s.points[k] = byZone
		}
		for _, z := range cols.Zones {
			name := s.canonicalZone(z.Name)
			if _, seen := byZone[name]; seen {
				continue
			}
			raw := model.Cell(row, z.Index)
			if strings.TrimSpace(raw) == "" {
				continue
			}
			p, err := model.ParseNumber(raw)
			if err != nil {
				continue
			}
			byZone[name] = p
		}
		s.days[day] = struct{}{}
	}
}

// Series returns the built series. The builder must not be used afterwards.
func (b *Builder) Series() *Series { return b.s }

// Build indexes a single table.
func Build(rows [][]string, cols schema.PriceColumns) *Series {
	b := NewBuilder(cols.Resolution)
	b.Add(rows, cols)
	return b.Series()
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
