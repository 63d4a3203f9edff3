package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"energy-multiplier/internal/config"
	"energy-multiplier/internal/costing"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/pipeline"
	"energy-multiplier/internal/report"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
)

const computeExample = `  energy-cli compute --year 2025 --zone NORD --curve consumi.xlsx --prices-dir data/prices
  energy-cli compute -C run.yaml --format xlsx,pdf,json`

func newComputeCmd() *cobra.Command {
	var (
		rf      runFlags
		out     string
		formats []string
		zones   string
	)
	cmd := &cobra.Command{
		Use:     "compute",
		Short:   "Compute the hourly (and quarter-hour) cost of a load curve",
		Example: computeExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			override := rf.overlay()
			override.Output = out
			override.Formats = formats
			override.ZonesFile = zones
			cfg, err := resolveConfig(rf.configFile, override)
			if err != nil {
				return err
			}
			return runCompute(cmd, cfg)
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path; the extension is replaced per format (default Report_Energia_<year>.xlsx)")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Output formats: xlsx, csv, pdf, json (default xlsx)")
	cmd.Flags().StringVar(&zones, "zones-file", "", "Zone catalog used for display names")
	return cmd
}

func runCompute(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	curveTable, err := loadCurve(cfg)
	if err != nil {
		return err
	}
	set, err := loadPrices(ctx, cfg)
	if err != nil {
		return err
	}

	params := pipeline.Params{
		Year:       cfg.Year,
		RegimeYear: cfg.RegimeYear,
		Zone:       cfg.Zone,
		Scale:      cfg.ScaleFactor(),
	}
	res, runErr := pipeline.Run(ctx, params, pipeline.Inputs{Curve: curveTable, Prices: set})
	if runErr != nil && !errors.Is(runErr, model.ErrNoMatchingData) {
		return runErr
	}

	w := cmd.OutOrStdout()
	if runErr != nil {
		printCoverage(w, res)
		return runErr
	}

	meta := report.Meta{
		Year:        cfg.Year,
		Zone:        cfg.Zone,
		ZoneName:    loadCatalog(cfg.ZonesFile).DisplayName(cfg.Zone),
		Unit:        unitLabel(cfg.EnergyUnit),
		GeneratedAt: time.Now(),
	}
	printMonthly(w, res, meta)
	printCoverage(w, res)

	base := cfg.Output
	if base == "" {
		base = report.DefaultFileName(cfg.Year)
	}
	for _, f := range cfg.Formats {
		path := withExt(base, f)
		if err := writeOutput(path, f, res, meta); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(w, "%s %s\n", green("wrote"), path)
	}
	return nil
}

func withExt(path, format string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
}

func writeOutput(path, format string, res *pipeline.Outcome, meta report.Meta) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var (
		raw []byte
		err error
	)
	switch format {
	case config.FormatCSV:
		return costing.WriteDetailCSV(path, res.Result)
	case config.FormatXLSX:
		raw, err = report.BuildXLSX(res, meta)
	case config.FormatPDF:
		raw, err = report.BuildPDF(res, meta)
	case config.FormatJSON:
		raw, err = json.MarshalIndent(report.NewSummary(res, meta), "", "  ")
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func printMonthly(w io.Writer, res *pipeline.Outcome, meta report.Meta) {
	quarter := res.Result.QuarterHour
	header := []string{"Mese", "Energia (" + meta.Unit + ")", "Costo orario"}
	if quarter {
		header = append(header, "Costo quartorario")
	}
	header = append(header, "Prezzo medio")

	td := pterm.TableData{header}
	addRow := func(m monthLine) {
		row := []string{m.month, fmt.Sprintf("%.3f", m.energy), fmt.Sprintf("%.2f", m.hourly)}
		if quarter {
			row = append(row, optionalCell(m.quarter))
		}
		row = append(row, fmt.Sprintf("%.4f", m.avg))
		td = append(td, row)
	}
	for _, m := range res.Monthly.Ordered() {
		addRow(monthLine{m.Month, m.Energy, m.CostHourly, m.CostQuarterHour, m.AveragePrice()})
	}
	t := res.Totals
	addRow(monthLine{pipeline.TotalLabel, t.Energy, t.CostHourly, t.CostQuarterHour, t.AveragePrice()})

	fmt.Fprintf(w, "%d, zona %s\n", meta.Year, meta.ZoneName)
	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(td).
		Srender()
	fmt.Fprintln(w, rendered)
}

type monthLine struct {
	month   string
	energy  float64
	hourly  float64
	quarter *float64
	avg     float64
}

func optionalCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func printCoverage(w io.Writer, res *pipeline.Outcome) {
	if res == nil || res.Result == nil {
		return
	}
	c := res.Result.Coverage
	if c.Complete() {
		fmt.Fprintln(w, green("coverage:"), c.String())
		return
	}
	fmt.Fprintln(w, yellow("coverage:"), c.String())
	for _, d := range c.MissingDays {
		fmt.Fprintln(w, "  no prices for", d.ISO())
	}
}
