package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Resolution is the length of one price period, in minutes.
// Keep these values stable; they appear in file names (_60, _15) and cache keys.
type Resolution int

const (
	Hourly      Resolution = 60
	QuarterHour Resolution = 15
)

const (
	HoursPerDay     = 24
	QuartersPerDay  = 96
	QuartersPerHour = 4
)

// PeriodsPerDay returns 24 for hourly and 96 for quarter-hour resolution.
func (r Resolution) PeriodsPerDay() int {
	switch r {
	case Hourly:
		return HoursPerDay
	case QuarterHour:
		return QuartersPerDay
	default:
		return 0
	}
}

func (r Resolution) Valid() bool { return r == Hourly || r == QuarterHour }

func (r Resolution) String() string {
	switch r {
	case Hourly:
		return "hourly"
	case QuarterHour:
		return "quarter-hour"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// DateKey is a calendar day in canonical YYYYMMDD form.
// Price and curve rows are joined on it; never compare raw source strings.
type DateKey string

const dateKeyLayout = "20060102"

func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

// Time returns midnight UTC of the day.
func (k DateKey) Time() time.Time {
	t, _ := time.Parse(dateKeyLayout, string(k))
	return t
}

// Month returns the "YYYY-MM" bucket used by the monthly summary.
func (k DateKey) Month() string {
	if len(k) != 8 {
		return ""
	}
	return string(k[:4]) + "-" + string(k[4:6])
}

// ISO returns the day as YYYY-MM-DD.
func (k DateKey) ISO() string {
	if len(k) != 8 {
		return string(k)
	}
	return string(k[:4]) + "-" + string(k[4:6]) + "-" + string(k[6:])
}

func (k DateKey) String() string { return string(k) }

// textual layouts accepted for price-table dates, tried in order.
// Slash and dash forms are day-first, as in the Italian exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
}

// ParseDateKey coerces the date forms found in price sources: 8-digit integers,
// integer-valued floats ("20240315.0", "2.0240315e+07") and textual dates.
func ParseDateKey(raw string) (DateKey, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f != math.Trunc(f) || f < 10000101 || f > 99991231 {
			return "", fmt.Errorf("invalid numeric date %q", raw)
		}
		cand := strconv.FormatInt(int64(f), 10)
		t, err := time.Parse(dateKeyLayout, cand)
		if err != nil {
			return "", fmt.Errorf("invalid numeric date %q: %w", raw, err)
		}
		return NewDateKey(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDateKey(t), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}

// ParseDayFirst parses the load-curve day column (DD/MM/YYYY and variants).
// ISO dates are accepted as well since spreadsheet tools rewrite them that way.
func ParseDayFirst(raw string) (DateKey, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{"2/1/2006", "2-1-2006", "2.1.2006", "2/1/2006 15:04:05", "2/1/2006 15:04", "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDateKey(t), nil
		}
	}
	return "", fmt.Errorf("unrecognized day %q", raw)
}

// ParsePeriod coerces "3" and "3.0" to 3. Fractional values are rejected.
func ParsePeriod(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q", raw)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integer period %q", raw)
	}
	return int(f), nil
}

// ParseNumber accepts both "0,125" and "0.125". When both separators occur the
// rightmost one is the decimal mark and the other is a thousands separator.
func ParseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return 0, fmt.Errorf("invalid number %q", raw)
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return f, nil
}
