package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "curve.csv", "Giorno")
	p := write(t, dir, "run.yaml", `
year: 2025
zone: NORD
curve_file: curve.csv
price_dir: missing-dir
formats: [XLSX, pdf]
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2025, c.Year)
	assert.Equal(t, "NORD", c.Zone)
	assert.Equal(t, DefaultRegimeYear, c.RegimeYear)
	assert.Equal(t, filepath.Join(dir, "curve.csv"), c.CurveFile)
	assert.Equal(t, "missing-dir", c.PriceDir, "unresolvable paths stay relative to the working directory")
	assert.Equal(t, []string{"xlsx", "pdf"}, c.Formats)
	assert.True(t, c.HasFormat(FormatPDF))
	assert.False(t, c.HasFormat(FormatCSV))
	assert.Equal(t, 0.001, c.ScaleFactor())
}

func TestLoad_TOML(t *testing.T) {
	p := write(t, t.TempDir(), "run.toml", `
year = 2024
zone = "SUD"
energy_unit = "MWh"
price_files = ["a.csv", "b.csv"]
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2024, c.Year)
	assert.Equal(t, "SUD", c.Zone)
	assert.Equal(t, []string{"a.csv", "b.csv"}, c.PriceFiles)
	assert.Empty(t, c.PriceDir, "explicit files replace the default directory")
	assert.Equal(t, 1.0, c.ScaleFactor())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(write(t, dir, "run.json", `{}`))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = Load(write(t, dir, "bad.yaml", "year: [1"))
	assert.Error(t, err)

	_, err = Load(write(t, dir, "noyear.yaml", "zone: PUN"))
	assert.ErrorContains(t, err, "year")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Default()
	base.Year = 2025
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad energy unit", func(c *Config) { c.EnergyUnit = "gwh" }},
		{"bad price unit", func(c *Config) { c.PriceUnit = "" }},
		{"negative scale", func(c *Config) { c.Scale = -1 }},
		{"bad format", func(c *Config) { c.Formats = []string{"docx"} }},
		{"empty zone", func(c *Config) { c.Zone = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.Formats = append([]string(nil), base.Formats...)
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestScaleFactor(t *testing.T) {
	assert.Equal(t, 0.001, UnitScale("kWh", "MWh"))
	assert.Equal(t, 1000.0, UnitScale(UnitMWh, UnitKWh))
	assert.Equal(t, 1.0, UnitScale(UnitKWh, UnitKWh))
	assert.Equal(t, 2.5, Config{Scale: 2.5, EnergyUnit: UnitKWh, PriceUnit: UnitMWh}.ScaleFactor())
}

func TestMerge(t *testing.T) {
	base := Config{Year: 2024, Zone: "PUN", PriceDir: "prices", Formats: []string{"xlsx"}}
	out := Merge(base, Config{Zone: "NORD", Scale: 0.001, Formats: []string{"csv"}})
	assert.Equal(t, 2024, out.Year)
	assert.Equal(t, "NORD", out.Zone)
	assert.Equal(t, "prices", out.PriceDir)
	assert.Equal(t, 0.001, out.Scale)
	assert.Equal(t, []string{"csv"}, out.Formats)
	assert.Equal(t, base, Merge(base, Config{}))
}
