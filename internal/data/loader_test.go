package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyCSV(day string, price float64) string {
	var b strings.Builder
	b.WriteString("Data;Ora;PUN;NORD\n")
	for h := 1; h <= 24; h++ {
		fmt.Fprintf(&b, "%s;%d;%g;%g\n", day, h, price, price+1)
	}
	return b.String()
}

func quarterCSV(day string, price float64) string {
	var b strings.Builder
	b.WriteString("Data;Periodo;PUN\n")
	for p := 1; p <= 96; p++ {
		fmt.Fprintf(&b, "%s;%d;%g\n", day, p, price)
	}
	return b.String()
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestBuildSet_GroupsByResolution(t *testing.T) {
	h, err := ReadCSV("Anno 2025.csv", strings.NewReader(hourlyCSV("20250101", 100)))
	require.NoError(t, err)
	q, err := ReadCSV("prezzi_15.csv", strings.NewReader(quarterCSV("20250101", 90)))
	require.NoError(t, err)

	set, err := BuildSet([]model.Table{q, h}, 2025, 2025)
	require.NoError(t, err)
	both, ok := set.(prices.HourlyPlusQuarterHour)
	require.True(t, ok)
	assert.Equal(t, model.Hourly, both.Hourly().Resolution())
	p, ok := both.QuarterHour().Lookup("20250101", 96, "PUN")
	assert.True(t, ok)
	assert.Equal(t, 90.0, p)

	set, err = BuildSet([]model.Table{q, h}, 2024, 2025)
	require.NoError(t, err)
	_, ok = set.(prices.HourlyOnly)
	assert.True(t, ok, "quarter-hour tables are ignored before the regime year")
}

func TestBuildSet_Errors(t *testing.T) {
	q, err := ReadCSV("q_15.csv", strings.NewReader(quarterCSV("20250101", 90)))
	require.NoError(t, err)
	_, err = BuildSet([]model.Table{q}, 2025, 2025)
	assert.ErrorIs(t, err, model.ErrNoPriceFile)

	bad := model.Table{Name: "bad_60.csv", Headers: []string{"Ora", "PUN"}}
	_, err = BuildSet([]model.Table{bad}, 2025, 2025)
	var se *model.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad_60.csv", se.Source)
	assert.Equal(t, "date", se.Role)
}

func TestBuildSeries_ConcatenatesFirstWins(t *testing.T) {
	a, _ := ReadCSV("a.csv", strings.NewReader(hourlyCSV("20240101", 100)))
	b, _ := ReadCSV("b.csv", strings.NewReader(hourlyCSV("20240101", 200)+"20240102;1;5;6\n"))

	s, err := BuildSeries([]model.Table{a, b}, model.Hourly)
	require.NoError(t, err)
	p, _ := s.Lookup("20240101", 1, "PUN")
	assert.Equal(t, 100.0, p)
	assert.Equal(t, 24, s.Duplicates())
	assert.True(t, s.HasDay("20240102"))

	s, err = BuildSeries(nil, model.Hourly)
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestPriceLoader_UsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prezzi_2025_60.csv", hourlyCSV("20250101", 100))
	writeFile(t, dir, "prezzi_2025_15.csv", quarterCSV("20250101", 90))
	writeFile(t, dir, "prezzi_2024.csv", hourlyCSV("20240101", 50))

	cache := NewPriceCache()
	l := NewPriceLoader(dir, 2025, cache)
	assert.Equal(t, dir, l.Dir())

	set, err := l.Load(context.Background(), 2025)
	require.NoError(t, err)
	_, ok := set.(prices.HourlyPlusQuarterHour)
	assert.True(t, ok)
	assert.Equal(t, 2, cache.Len())

	// Cached series survive the files going away.
	require.NoError(t, os.Remove(filepath.Join(dir, "prezzi_2025_60.csv")))
	require.NoError(t, os.Remove(filepath.Join(dir, "prezzi_2025_15.csv")))
	again, err := l.Load(context.Background(), 2025)
	require.NoError(t, err)
	assert.Same(t, set.Hourly(), again.Hourly())

	set, err = l.Load(context.Background(), 2024)
	require.NoError(t, err)
	_, ok = set.(prices.HourlyOnly)
	assert.True(t, ok)
	assert.Equal(t, 3, cache.Len())
}

func TestPriceLoader_NoQuarterHourFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prezzi_2025_60.csv", hourlyCSV("20250101", 100))

	cache := NewPriceCache()
	set, err := NewPriceLoader(dir, 2025, cache).Load(context.Background(), 2025)
	require.NoError(t, err)
	_, ok := set.(prices.HourlyOnly)
	assert.True(t, ok)

	q, ok := cache.Get(CacheKey{Year: 2025, Resolution: model.QuarterHour})
	assert.True(t, ok, "absence is cached")
	assert.Nil(t, q)
}

func TestPriceLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewPriceLoader(dir, 2025, nil).Load(context.Background(), 2023)
	assert.ErrorIs(t, err, model.ErrNoPriceFile)

	writeFile(t, dir, "prezzi_2023.csv", hourlyCSV("20230101", 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewPriceLoader(dir, 2025, nil).Load(ctx, 2023)
	assert.ErrorIs(t, err, context.Canceled)
}
