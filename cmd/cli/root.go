package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"energy-multiplier/internal/config"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "energy-cli",
		Short:         "Price a load curve against day-ahead market prices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger.Configure(cmd.ErrOrStderr(), level, false)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress and skipped rows")

	root.AddCommand(newComputeCmd(), newRankCmd(), newZonesCmd())
	return root
}

// runFlags are the flags shared by compute and rank. Zero values defer to the
// config file, then to defaults.
type runFlags struct {
	configFile string
	year       int
	regimeYear int
	zone       string
	curve      string
	priceDir   string
	priceFiles []string
	energyUnit string
	priceUnit  string
	scale      float64
}

func (f *runFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.configFile, "config", "C", "", "Path to a TOML or YAML configuration file")
	fl.IntVarP(&f.year, "year", "y", 0, "Year to price")
	fl.IntVar(&f.regimeYear, "regime-year", 0, fmt.Sprintf("First year of quarter-hour pricing (default %d)", config.DefaultRegimeYear))
	fl.StringVarP(&f.zone, "zone", "z", "", fmt.Sprintf("Market zone column (default %s)", config.DefaultZone))
	fl.StringVarP(&f.curve, "curve", "c", "", "Load curve file (.csv or .xlsx)")
	fl.StringVarP(&f.priceDir, "prices-dir", "d", "", fmt.Sprintf("Directory scanned for price files (default %s)", config.DefaultPriceDir))
	fl.StringSliceVarP(&f.priceFiles, "price", "p", nil, "Price file to use instead of scanning a directory (repeatable)")
	fl.StringVar(&f.energyUnit, "energy-unit", "", "Unit of the load curve: kwh or mwh")
	fl.StringVar(&f.priceUnit, "price-unit", "", "Energy unit prices are quoted per: kwh or mwh")
	fl.Float64Var(&f.scale, "scale", 0, "Explicit multiplier for every energy*price product")
}

func (f *runFlags) overlay() config.Config {
	return config.Config{
		Year:       f.year,
		RegimeYear: f.regimeYear,
		Zone:       strings.TrimSpace(f.zone),
		CurveFile:  f.curve,
		PriceDir:   f.priceDir,
		PriceFiles: f.priceFiles,
		EnergyUnit: f.energyUnit,
		PriceUnit:  f.priceUnit,
		Scale:      f.scale,
	}
}

// resolveConfig layers flags over the optional config file.
func resolveConfig(configFile string, override config.Config) (*config.Config, error) {
	base := config.Config{}
	if configFile != "" {
		c, err := config.LoadUnchecked(configFile)
		if err != nil {
			return nil, err
		}
		base = *c
	}
	cfg := config.Merge(base, override)
	// A directory given on the command line wins over files listed in the config.
	if override.PriceDir != "" && len(override.PriceFiles) == 0 {
		cfg.PriceFiles = nil
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadPrices reads the explicit price files, or scans the price directory.
func loadPrices(ctx context.Context, cfg *config.Config) (prices.Set, error) {
	if len(cfg.PriceFiles) == 0 {
		return data.NewPriceLoader(cfg.PriceDir, cfg.RegimeYear, nil).Load(ctx, cfg.Year)
	}
	tables := make([]model.Table, 0, len(cfg.PriceFiles))
	for _, p := range cfg.PriceFiles {
		t, err := data.ReadTableFile(p)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded price file", "file", p, "rows", len(t.Rows))
		tables = append(tables, t)
	}
	return data.BuildSet(tables, cfg.Year, cfg.RegimeYear)
}

func loadCurve(cfg *config.Config) (model.Table, error) {
	if cfg.CurveFile == "" {
		return model.Table{}, fmt.Errorf("a load curve is required (--curve or curve_file)")
	}
	return data.ReadTableFile(cfg.CurveFile)
}

func unitLabel(u string) string {
	if u == config.UnitMWh {
		return "MWh"
	}
	return "kWh"
}

func loadCatalog(path string) *data.ZoneCatalog {
	if path == "" {
		path = data.DefaultZonesPath()
	}
	c, err := data.LoadZonesOrDefault(path)
	if err != nil {
		logger.Warn("zone catalog unreadable, using built-in zones", "path", path, "error", err)
		return data.DefaultZones()
	}
	return c
}
