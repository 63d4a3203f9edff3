package model

// CurveDay is one row of the load curve: a day and its 96 quarter-hour energy values.
// Values[k-1] is the energy delivered in quarter-hour k (k=1 is 00:00-00:15).
type CurveDay struct {
	Date   DateKey
	Values [QuartersPerDay]float64
}

// Total is the day's energy.
func (d CurveDay) Total() float64 {
	sum := 0.0
	for _, v := range d.Values {
		sum += v
	}
	return sum
}

// Hour returns the four quarter-hour values of hour h (1..24).
func (d CurveDay) Hour(h int) [QuartersPerHour]float64 {
	var out [QuartersPerHour]float64
	copy(out[:], d.Values[(h-1)*QuartersPerHour:h*QuartersPerHour])
	return out
}

// LoadCurve is the parsed load curve in source row order.
// Units are whatever the source uses; the engine never converts them.
type LoadCurve []CurveDay

// Total is the energy of the whole curve.
func (c LoadCurve) Total() float64 {
	sum := 0.0
	for _, d := range c {
		sum += d.Total()
	}
	return sum
}
