package main

import (
	"fmt"
	"io"

	"energy-multiplier/internal/config"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/prices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newZonesCmd() *cobra.Command {
	var zonesFile string
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List the zone catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printCatalog(cmd.OutOrStdout(), loadCatalog(zonesFile))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&zonesFile, "zones-file", "", "Zone catalog path (default $ZONES_FILE or ./data/zones.json)")
	cmd.AddCommand(newZonesUpdateCmd(&zonesFile))
	return cmd
}

// newZonesUpdateCmd adds every zone column found in a year's price files to
// the catalog and saves it.
func newZonesUpdateCmd(zonesFile *string) *cobra.Command {
	var (
		year       int
		regimeYear int
		priceDir   string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Add the zones of a year's price files to the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				return fmt.Errorf("--year is required")
			}
			path := *zonesFile
			if path == "" {
				path = data.DefaultZonesPath()
			}
			catalog, err := data.LoadZonesOrDefault(path)
			if err != nil {
				return err
			}

			set, err := data.NewPriceLoader(priceDir, regimeYear, nil).Load(cmd.Context(), year)
			if err != nil {
				return err
			}
			ids := set.Hourly().Zones()
			if q, ok := set.(prices.HourlyPlusQuarterHour); ok {
				ids = append(ids, q.QuarterHour().Zones()...)
			}

			added := catalog.Merge(ids)
			if err := data.SaveZones(catalog, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d new zones, %d total, saved to %s\n",
				green("added"), added, len(catalog.Zones), path)
			return nil
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year whose price files are scanned")
	cmd.Flags().IntVar(&regimeYear, "regime-year", config.DefaultRegimeYear, "First year of quarter-hour pricing")
	cmd.Flags().StringVarP(&priceDir, "prices-dir", "d", config.DefaultPriceDir, "Directory scanned for price files")
	return cmd
}

func printCatalog(w io.Writer, c *data.ZoneCatalog) {
	td := pterm.TableData{{"ID", "Nome", "Tipo"}}
	for _, z := range c.Zones {
		td = append(td, []string{z.ID, z.Name, z.Kind})
	}
	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(td).Srender()
	fmt.Fprintln(w, rendered)
	if c.UpdatedAt != "" {
		fmt.Fprintln(w, "updated", c.UpdatedAt)
	}
}
