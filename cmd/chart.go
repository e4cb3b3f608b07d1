package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/antioquia-dashboard/internal/chart"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/spf13/cobra"
)

var chartOut string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the yearly trend and regional distribution as PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _, err := loadView()
		if err != nil {
			return err
		}
		if v.Len() == 0 {
			return fmt.Errorf("nothing to chart")
		}
		dir := outputDir(chartOut)
		trend := filepath.Join(dir, "tendencia.png")
		if err := chart.TrendPNG(trend, transform.GroupByYear(v)); err != nil {
			return fmt.Errorf("trend chart: %w", err)
		}
		regions := filepath.Join(dir, "regiones.png")
		if err := chart.RegionBarsPNG(regions, transform.GroupByRegion(v)); err != nil {
			return fmt.Errorf("region chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n✓ %s\n", trend, regions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addFilterFlags(chartCmd)
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "output directory (default from config)")
}
