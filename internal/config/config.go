package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultZone       = "PUN"
	DefaultRegimeYear = 2025
	DefaultPriceDir   = "./data/prices"

	UnitKWh = "kwh"
	UnitMWh = "mwh"

	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Config is the on-disk configuration shape (YAML or TOML).
type Config struct {
	Year       int    `yaml:"year" toml:"year"`
	Zone       string `yaml:"zone" toml:"zone"`
	RegimeYear int    `yaml:"regime_year" toml:"regime_year"`

	// EnergyUnit is the unit of the load curve, PriceUnit the energy unit the
	// prices are quoted per. Their ratio gives the cost scale unless Scale is set.
	EnergyUnit string  `yaml:"energy_unit" toml:"energy_unit"`
	PriceUnit  string  `yaml:"price_unit" toml:"price_unit"`
	Scale      float64 `yaml:"scale" toml:"scale"`

	// PriceFiles, when set, replaces discovery in PriceDir.
	PriceDir   string   `yaml:"price_dir" toml:"price_dir"`
	PriceFiles []string `yaml:"price_files" toml:"price_files"`
	CurveFile  string   `yaml:"curve_file" toml:"curve_file"`
	Output     string   `yaml:"output" toml:"output"`
	Formats    []string `yaml:"formats" toml:"formats"`
	ZonesFile  string   `yaml:"zones_file" toml:"zones_file"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a config by file extension but neither defaults nor
// validates it. Relative paths are resolved against the config file directory
// when the file exists there.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	dir := filepath.Dir(path)
	c.PriceDir = resolve(dir, c.PriceDir)
	c.CurveFile = resolve(dir, c.CurveFile)
	c.ZonesFile = resolve(dir, c.ZonesFile)
	for i, f := range c.PriceFiles {
		c.PriceFiles[i] = resolve(dir, f)
	}
	return &c, nil
}

// resolve prefers interpreting p relative to dir, falling back to p relative
// to the working directory if that doesn't exist.
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// Default returns a config holding only defaults.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Zone == "" {
		c.Zone = DefaultZone
	}
	if c.RegimeYear == 0 {
		c.RegimeYear = DefaultRegimeYear
	}
	if c.EnergyUnit == "" {
		c.EnergyUnit = UnitKWh
	}
	if c.PriceUnit == "" {
		c.PriceUnit = UnitMWh
	}
	if c.PriceDir == "" && len(c.PriceFiles) == 0 {
		c.PriceDir = DefaultPriceDir
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{FormatXLSX}
	}
	c.EnergyUnit = strings.ToLower(c.EnergyUnit)
	c.PriceUnit = strings.ToLower(c.PriceUnit)
	for i, f := range c.Formats {
		c.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Year < 1900 || c.Year > 2999 {
		return fmt.Errorf("year must be a four-digit year, got %d", c.Year)
	}
	if strings.TrimSpace(c.Zone) == "" {
		return errors.New("zone is required")
	}
	if c.RegimeYear < 0 {
		return fmt.Errorf("regime_year must be positive, got %d", c.RegimeYear)
	}
	if !validUnit(c.EnergyUnit) {
		return fmt.Errorf("energy_unit must be %q or %q, got %q", UnitKWh, UnitMWh, c.EnergyUnit)
	}
	if !validUnit(c.PriceUnit) {
		return fmt.Errorf("price_unit must be %q or %q, got %q", UnitKWh, UnitMWh, c.PriceUnit)
	}
	if c.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %g", c.Scale)
	}
	for _, f := range c.Formats {
		switch f {
		case FormatXLSX, FormatCSV, FormatPDF, FormatJSON:
		default:
			return fmt.Errorf("unsupported output format %q", f)
		}
	}
	return nil
}

func validUnit(u string) bool { return u == UnitKWh || u == UnitMWh }

// ScaleFactor is the multiplier applied to every energy*price product: Scale
// when set, else the unit ratio (a kWh curve priced per MWh gives 0.001).
func (c Config) ScaleFactor() float64 {
	if c.Scale != 0 {
		return c.Scale
	}
	return UnitScale(c.EnergyUnit, c.PriceUnit)
}

// UnitScale converts energy in energyUnit to the unit prices are quoted per.
func UnitScale(energyUnit, priceUnit string) float64 {
	e, p := strings.ToLower(energyUnit), strings.ToLower(priceUnit)
	switch {
	case e == UnitKWh && p == UnitMWh:
		return 0.001
	case e == UnitMWh && p == UnitKWh:
		return 1000
	default:
		return 1
	}
}

// HasFormat reports whether f was requested.
func (c Config) HasFormat(f string) bool {
	for _, x := range c.Formats {
		if x == f {
			return true
		}
	}
	return false
}

// Merge overlays non-zero fields from override onto base.
// This is used when loading a config file and then applying command-line flags.
func Merge(base, override Config) Config {
	out := base
	if override.Year != 0 {
		out.Year = override.Year
	}
	if override.Zone != "" {
		out.Zone = override.Zone
	}
	if override.RegimeYear != 0 {
		out.RegimeYear = override.RegimeYear
	}
	if override.EnergyUnit != "" {
		out.EnergyUnit = override.EnergyUnit
	}
	if override.PriceUnit != "" {
		out.PriceUnit = override.PriceUnit
	}
	if override.Scale != 0 {
		out.Scale = override.Scale
	}
	if override.PriceDir != "" {
		out.PriceDir = override.PriceDir
	}
	if len(override.PriceFiles) > 0 {
		out.PriceFiles = override.PriceFiles
	}
	if override.CurveFile != "" {
		out.CurveFile = override.CurveFile
	}
	if override.Output != "" {
		out.Output = override.Output
	}
	if len(override.Formats) > 0 {
		out.Formats = override.Formats
	}
	if override.ZonesFile != "" {
		out.ZonesFile = override.ZonesFile
	}
	return out
}
