package costing

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"
	"energy-multiplier/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatDay(date model.DateKey, v float64) model.CurveDay {
	d := model.CurveDay{Date: date}
	for k := range d.Values {
		d.Values[k] = v
	}
	return d
}

// rampDay gives quarter-hour k (1-based) the value k so bucket errors show up.
func rampDay(date model.DateKey) model.CurveDay {
	d := model.CurveDay{Date: date}
	for k := range d.Values {
		d.Values[k] = float64(k + 1)
	}
	return d
}

func series(t *testing.T, res model.Resolution, headers []string, rows [][]string) *prices.Series {
	t.Helper()
	cols, err := schema.DetectPriceColumns(headers, res)
	require.NoError(t, err)
	return prices.Build(rows, cols)
}

// fullHourly prices every hour of the given days at price for zone PUN.
func fullHourly(t *testing.T, price string, days ...string) *prices.Series {
	var rows [][]string
	for _, d := range days {
		for h := 1; h <= 24; h++ {
			rows = append(rows, []string{d, strconv.Itoa(h), price})
		}
	}
	return series(t, model.Hourly, []string{"Data", "Ora", "PUN"}, rows)
}

func fullQuarter(t *testing.T, price func(p int) string, days ...string) *prices.Series {
	var rows [][]string
	for _, d := range days {
		for p := 1; p <= 96; p++ {
			rows = append(rows, []string{d, strconv.Itoa(p), price(p)})
		}
	}
	return series(t, model.QuarterHour, []string{"Data", "Periodo", "PUN"}, rows)
}

func TestAllocate_SingleHourScenario(t *testing.T) {
	curve := model.LoadCurve{flatDay("20240315", 10)}
	hourly := series(t, model.Hourly, []string{"Data", "Ora", "PUN"}, [][]string{
		{"20240315", "1", "100"},
	})

	res, err := New(Options{Year: 2024}).Allocate(curve, prices.NewSet(hourly, nil), "PUN")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, model.DateKey("20240315"), row.Date)
	assert.Equal(t, 1, row.Hour)
	assert.Equal(t, 40.0, row.Energy)
	assert.Equal(t, 4000.0, row.CostHourly)
	assert.Nil(t, row.CostQuarterHour)
	assert.Equal(t, 23, res.Coverage.GapCount())

	scaled, err := New(Options{Year: 2024, Scale: 0.001}).Allocate(curve, prices.NewSet(hourly, nil), "PUN")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, scaled.Rows[0].CostHourly, 1e-12)
}

func TestAllocate_HourBoundaries(t *testing.T) {
	curve := model.LoadCurve{rampDay("20240101")}
	res, err := New(Options{Year: 2024}).Allocate(curve, prices.NewSet(fullHourly(t, "1", "20240101"), nil), "PUN")
	require.NoError(t, err)
	require.Len(t, res.Rows, 24)

	// hour 1 -> quarter-hours 1..4, hour 24 -> 93..96
	assert.Equal(t, 1.0+2+3+4, res.Rows[0].Energy)
	assert.Equal(t, 93.0+94+95+96, res.Rows[23].Energy)
	assert.Equal(t, 24, res.Rows[23].Hour)
}

func TestAllocate_ConservesDailyEnergy(t *testing.T) {
	curve := model.LoadCurve{rampDay("20240101"), flatDay("20240102", 0.37)}
	res, err := New(Options{Year: 2024}).Allocate(curve, prices.NewSet(fullHourly(t, "55", "20240101", "20240102"), nil), "PUN")
	require.NoError(t, err)

	byDay := map[model.DateKey]float64{}
	for _, r := range res.Rows {
		byDay[r.Date] += r.Energy
	}
	for _, d := range curve {
		assert.InDelta(t, d.Total(), byDay[d.Date], 1e-9, "day %s", d.Date)
	}
	assert.True(t, res.Coverage.Complete())
	assert.Equal(t, 48, res.Coverage.PricedHours)
}

func TestAllocate_Idempotent(t *testing.T) {
	curve := model.LoadCurve{rampDay("20250101"), flatDay("20250102", 2)}
	h := fullHourly(t, "80", "20250101", "20250102")
	q := fullQuarter(t, func(p int) string { return strconv.Itoa(p % 90) }, "20250101", "20250102")
	eng := New(Options{Year: 2025})

	var outs [2]string
	for i := range outs {
		res, err := eng.Allocate(curve, prices.NewSet(h, q), "PUN")
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, EncodeDetailCSV(&buf, res))
		outs[i] = buf.String()
	}
	assert.Equal(t, outs[0], outs[1])
}

func TestAllocate_RegimeGate2024IgnoresQuarterHour(t *testing.T) {
	curve := model.LoadCurve{flatDay("20240101", 1)}
	set := prices.NewSet(fullHourly(t, "10", "20240101"), fullQuarter(t, func(int) string { return "20" }, "20240101"))

	res, err := New(Options{Year: 2024}).Allocate(curve, set, "PUN")
	require.NoError(t, err)
	assert.False(t, res.QuarterHour)
	for _, r := range res.Rows {
		assert.Nil(t, r.CostQuarterHour)
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeDetailCSV(&buf, res))
	assert.NotContains(t, buf.String(), "cost_quarter_hour")
}

func TestAllocate_QuarterHourSupplementary(t *testing.T) {
	curve := model.LoadCurve{rampDay("20250601")}
	// quarter price of period p is p, hourly price is 10
	set := prices.NewSet(
		fullHourly(t, "10", "20250601"),
		fullQuarter(t, func(p int) string { return strconv.Itoa(p) }, "20250601"),
	)

	res, err := New(Options{Year: 2025}).Allocate(curve, set, "PUN")
	require.NoError(t, err)
	require.Len(t, res.Rows, 24)
	assert.True(t, res.QuarterHour)

	first := res.Rows[0]
	assert.Equal(t, 10.0*(1+2+3+4), first.CostHourly)
	require.NotNil(t, first.CostQuarterHour)
	assert.Equal(t, 1.0*1+2*2+3*3+4*4, *first.CostQuarterHour)

	last := res.Rows[23]
	require.NotNil(t, last.CostQuarterHour)
	assert.Equal(t, 93.0*93+94*94+95*95+96*96, *last.CostQuarterHour)
	for _, r := range res.Rows {
		assert.NotNil(t, r.CostQuarterHour, "hour %d", r.Hour)
	}
}

func TestAllocate_2025WithoutQuarterTable(t *testing.T) {
	curve := model.LoadCurve{flatDay("20250101", 1)}
	res, err := New(Options{Year: 2025}).Allocate(curve, prices.NewSet(fullHourly(t, "10", "20250101"), nil), "PUN")
	require.NoError(t, err)
	assert.False(t, res.QuarterHour)
	assert.Nil(t, res.Rows[0].CostQuarterHour)
}

func TestAllocate_QuarterHourGaps(t *testing.T) {
	curve := model.LoadCurve{flatDay("20250101", 1)}
	q := series(t, model.QuarterHour, []string{"Data", "Periodo", "PUN"}, [][]string{
		{"20250101", "1", "5"},
		{"20250101", "2", "5"},
	})
	res, err := New(Options{Year: 2025}).Allocate(curve, prices.NewSet(fullHourly(t, "10", "20250101"), q), "PUN")
	require.NoError(t, err)

	require.NotNil(t, res.Rows[0].CostQuarterHour)
	assert.Equal(t, 10.0, *res.Rows[0].CostQuarterHour)
	assert.Nil(t, res.Rows[1].CostQuarterHour)
	assert.Len(t, res.Coverage.QuarterHourGaps, 94)
	assert.Equal(t, 3, res.Coverage.QuarterHourGaps[0].Period)
}

func TestAllocate_MissingDayCountsTwentyFourGaps(t *testing.T) {
	curve := model.LoadCurve{flatDay("20250601", 1), flatDay("20250602", 1)}
	set := prices.NewSet(fullHourly(t, "10", "20250602"), fullQuarter(t, func(int) string { return "1" }, "20250602"))

	res, err := New(Options{Year: 2025}).Allocate(curve, set, "PUN")
	require.NoError(t, err)
	assert.Equal(t, 24, res.Coverage.GapCount())
	assert.Equal(t, []model.DateKey{"20250601"}, res.Coverage.MissingDays)
	for _, r := range res.Rows {
		assert.Equal(t, model.DateKey("20250602"), r.Date)
	}
	assert.Equal(t, "24 of 48 hours had no price match (1 days without prices)", res.Coverage.String())
}

func TestAllocate_NoMatchingData(t *testing.T) {
	curve := model.LoadCurve{flatDay("20250601", 1)}
	res, err := New(Options{Year: 2025}).Allocate(curve, prices.NewSet(fullHourly(t, "10", "20240101"), nil), "PUN")
	require.True(t, errors.Is(err, model.ErrNoMatchingData))
	require.NotNil(t, res)
	assert.Equal(t, 24, res.Coverage.GapCount())
}

func TestAllocate_DuplicatePriceRowsFirstWins(t *testing.T) {
	curve := model.LoadCurve{flatDay("20240101", 1)}
	hourly := series(t, model.Hourly, []string{"Data", "Ora", "PUN"}, [][]string{
		{"20240101", "1", "100"},
		{"20240101", "1", "300"},
	})
	res, err := New(Options{Year: 2024}).Allocate(curve, prices.NewSet(hourly, nil), "PUN")
	require.NoError(t, err)
	assert.Equal(t, 400.0, res.Rows[0].CostHourly)
}

func TestAllocate_UnknownZone(t *testing.T) {
	_, err := New(Options{Year: 2024}).Allocate(model.LoadCurve{flatDay("20240101", 1)}, prices.NewSet(fullHourly(t, "1", "20240101"), nil), "XYZ")
	assert.True(t, errors.Is(err, model.ErrUnknownZone))
}
