package main

import (
	"fmt"
	"io"

	"energy-multiplier/internal/analysis"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/pipeline"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newRankCmd() *cobra.Command {
	var (
		rf    runFlags
		limit int
		zones string
	)
	cmd := &cobra.Command{
		Use:     "rank",
		Short:   "Price the load curve in every zone, cheapest first",
		Example: "  energy-cli rank --year 2024 --curve consumi.csv --price prezzi_2024.xlsx --limit 3",
		RunE: func(cmd *cobra.Command, _ []string) error {
			override := rf.overlay()
			override.ZonesFile = zones
			cfg, err := resolveConfig(rf.configFile, override)
			if err != nil {
				return err
			}
			curveTable, err := loadCurve(cfg)
			if err != nil {
				return err
			}
			set, err := loadPrices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ranked, err := pipeline.Rank(cmd.Context(), pipeline.Params{
				Year:       cfg.Year,
				RegimeYear: cfg.RegimeYear,
				Zone:       cfg.Zone,
				Scale:      cfg.ScaleFactor(),
			}, pipeline.Inputs{Curve: curveTable, Prices: set})
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(ranked) {
				ranked = ranked[:limit]
			}
			printRanking(cmd.OutOrStdout(), ranked, loadCatalog(cfg.ZonesFile))
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the N cheapest zones (0=all)")
	cmd.Flags().StringVar(&zones, "zones-file", "", "Zone catalog used for display names")
	return cmd
}

func printRanking(w io.Writer, ranked []analysis.ZoneCost, catalog *data.ZoneCatalog) {
	td := pterm.TableData{{"#", "Zona", "Nome", "Energia", "Costo orario", "Costo quartorario", "Ore senza prezzo", "Media", "P95-P05"}}
	for i, r := range ranked {
		td = append(td, []string{
			fmt.Sprint(i + 1),
			r.Zone,
			catalog.DisplayName(r.Zone),
			fmt.Sprintf("%.3f", r.Energy),
			fmt.Sprintf("%.2f", r.CostHourly),
			optionalCell(r.CostQuarterHour),
			fmt.Sprint(r.Gaps),
			fmt.Sprintf("%.2f", r.Stats.Mean),
			fmt.Sprintf("%.2f", r.Stats.SpreadP95P05),
		})
	}
	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(td).Srender()
	fmt.Fprintln(w, rendered)
}
