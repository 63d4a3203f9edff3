// Package schema locates the date, hour/period and market-zone columns of
// price and load-curve tables by fuzzy header matching.
//
// Everything here is a pure function of the header list so it can be tested
// without file I/O. Ties are broken left to right: the first matching header wins.
package schema

import (
	"strings"

	"energy-multiplier/internal/model"
)

const (
	RoleDate   = "date"
	RoleHour   = "hour"
	RolePeriod = "period"
	RoleZone   = "market zone"
	RoleDay    = "day"
)

// Column is a located header and its position in the row.
type Column struct {
	Name  string
	Index int
}

// PriceColumns is the column-role mapping of a price table.
type PriceColumns struct {
	Resolution model.Resolution
	Date       Column
	// Period is the hour column (1..24) for hourly tables and the
	// period column (1..96) for quarter-hour tables.
	Period Column
	Zones  []Column
}

// Zone returns the named zone column. Matching ignores case.
func (p PriceColumns) Zone(name string) (Column, bool) {
	for _, z := range p.Zones {
		if strings.EqualFold(z.Name, name) {
			return z, true
		}
	}
	return Column{}, false
}

// ZoneNames lists zone headers in column order.
func (p PriceColumns) ZoneNames() []string {
	out := make([]string, 0, len(p.Zones))
	for _, z := range p.Zones {
		out = append(out, z.Name)
	}
	return out
}

// NormalizeHeader collapses embedded line breaks to spaces and trims.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, "\r\n", " ")
	h = strings.ReplaceAll(h, "\n", " ")
	h = strings.ReplaceAll(h, "\r", " ")
	return strings.TrimSpace(h)
}

// NormalizeHeaders applies NormalizeHeader to every header, returning a new slice.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeHeader(h)
	}
	return out
}

func containsAny(h string, needles ...string) bool {
	l := strings.ToLower(h)
	for _, n := range needles {
		if strings.Contains(l, n) {
			return true
		}
	}
	return false
}

func IsDateHeader(h string) bool { return containsAny(h, "data", "date") }
func IsHourHeader(h string) bool { return containsAny(h, "ora", "hour") }
func IsPeriodHeader(h string) bool { return containsAny(h, "periodo", "period") }

// IsRowNumberHeader matches index columns left behind by spreadsheet and
// dataframe exports ("#", "N.", "Unnamed: 0", ...).
func IsRowNumberHeader(h string) bool {
	l := strings.ToLower(strings.TrimSpace(h))
	switch l {
	case "#", "n", "n.", "nr", "nr.", "no", "no.", "row", "index", "idx", "riga", "id":
		return true
	}
	return strings.HasPrefix(l, "unnamed")
}

func first(headers []string, skip map[int]bool, match func(string) bool) (Column, bool) {
	for i, h := range headers {
		if skip[i] {
			continue
		}
		if match(h) {
			return Column{Name: h, Index: i}, true
		}
	}
	return Column{}, false
}

func schemaErr(role string, headers []string) *model.SchemaError {
	return &model.SchemaError{Role: role, Headers: append([]string(nil), headers...)}
}

// DetectPriceColumns maps normalized price headers to roles for the given resolution.
// A missing date or hour/period column is a *model.SchemaError.
func DetectPriceColumns(headers []string, res model.Resolution) (PriceColumns, error) {
	headers = NormalizeHeaders(headers)
	out := PriceColumns{Resolution: res}

	date, ok := first(headers, nil, IsDateHeader)
	if !ok {
		return out, schemaErr(RoleDate, headers)
	}
	out.Date = date

	skip := map[int]bool{date.Index: true}
	switch res {
	case model.QuarterHour:
		p, ok := first(headers, skip, IsPeriodHeader)
		if !ok {
			return out, schemaErr(RolePeriod, headers)
		}
		out.Period = p
	default:
		h, ok := first(headers, skip, IsHourHeader)
		if !ok {
			return out, schemaErr(RoleHour, headers)
		}
		out.Period = h
		out.Resolution = model.Hourly
	}

	for i, h := range headers {
		if h == "" || IsDateHeader(h) || IsHourHeader(h) || IsPeriodHeader(h) || IsRowNumberHeader(h) {
			continue
		}
		out.Zones = append(out.Zones, Column{Name: h, Index: i})
	}
	return out, nil
}

// InferResolution decides the granularity of a price table from its headers:
// a period column means quarter-hour, otherwise an hour column means hourly.
func InferResolution(headers []string) (model.Resolution, error) {
	headers = NormalizeHeaders(headers)
	if _, ok := first(headers, nil, IsPeriodHeader); ok {
		return model.QuarterHour, nil
	}
	if _, ok := first(headers, nil, IsHourHeader); ok {
		return model.Hourly, nil
	}
	return 0, schemaErr(RoleHour+"/"+RolePeriod, headers)
}

// CurveColumns locates the day column of a load curve; the 96 energy
// columns follow it.
type CurveColumns struct {
	Date       Column
	FirstValue int
}

func isDayHeader(h string) bool { return containsAny(h, "giorno", "day") || IsDateHeader(h) }

// DetectCurveColumns finds the day column ("Giorno", or any date-like header).
func DetectCurveColumns(headers []string) (CurveColumns, error) {
	headers = NormalizeHeaders(headers)
	d, ok := first(headers, nil, isDayHeader)
	if !ok {
		return CurveColumns{}, schemaErr(RoleDay, headers)
	}
	return CurveColumns{Date: d, FirstValue: d.Index + 1}, nil
}

// PickSheet returns the first sheet whose name contains "prezzi" or "prices",
// falling back to the first sheet.
func PickSheet(names []string) string {
	for _, n := range names {
		if containsAny(n, "prezzi", "prices") {
			return n
		}
	}
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
