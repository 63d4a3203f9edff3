package prices

// Set is the price input of one computation. It is one of two variants:
//
//   - HourlyOnly: an hourly series only (every year before the regime change,
//     and later years without a quarter-hour file).
//   - HourlyPlusQuarterHour: an hourly series plus a 96-period quarter-hour series.
//
// The interface is sealed; consumers switch on the concrete type.
type Set interface {
	Hourly() *Series
	isSet()
}

type HourlyOnly struct {
	hourly *Series
}

func (h HourlyOnly) Hourly() *Series { return h.hourly }
func (HourlyOnly) isSet() {}

type HourlyPlusQuarterHour struct {
	hourly      *Series
	quarterHour *Series
}

func (h HourlyPlusQuarterHour) Hourly() *Series { return h.hourly }
func (h HourlyPlusQuarterHour) QuarterHour() *Series { return h.quarterHour }
func (HourlyPlusQuarterHour) isSet() {}

// NewSet picks the variant from what is available. A nil quarterHour series
// yields HourlyOnly.
func NewSet(hourly, quarterHour *Series) Set {
	if quarterHour == nil {
		return HourlyOnly{hourly: hourly}
	}
	return HourlyPlusQuarterHour{hourly: hourly, quarterHour: quarterHour}
}

// ForYear applies the regime gate: before regimeYear there is no quarter-hour
// settlement, so a supplied quarter-hour series is ignored.
func ForYear(year, regimeYear int, hourly, quarterHour *Series) Set {
	if year < regimeYear {
		return HourlyOnly{hourly: hourly}
	}
	return NewSet(hourly, quarterHour)
}
