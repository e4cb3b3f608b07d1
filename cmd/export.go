package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/export"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/spf13/cobra"
)

var (
	exportOut     string
	exportFormats []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the enriched view as CSV, XLSX and JSON with a manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		formats, err := export.ParseFormats(exportFormats)
		if err != nil {
			return err
		}
		v, c, err := loadView()
		if err != nil {
			return err
		}
		ranking, err := stats.Rank(v, stats.RankOptions{By: stats.MetricCases})
		if err != nil {
			return err
		}
		risk, err := stats.RiskIndex(v, stats.RiskOptions{WindowYears: riskWindow(), Strategy: riskStrategy()})
		if err != nil {
			if !errors.Is(err, dataset.ErrInsufficientData) {
				return err
			}
			warnf("risk index skipped: %v", err)
		}
		dir := outputDir(exportOut)
		m, err := export.Run(dir, export.Bundle{
			Source:   filepath.Base(datasetLoader().Path()),
			Criteria: c,
			View:     v,
			Regions:  transform.GroupByRegion(v),
			Ranking:  ranking,
			Risk:     risk,
		}, formats)
		if err != nil {
			return err
		}
		logger.Info("export finished", "run_id", m.RunID, "dir", dir, "files", len(m.Files))
		out := cmd.OutOrStdout()
		for _, f := range m.Files {
			fmt.Fprintf(out, "✓ %s\n", filepath.Join(dir, f))
		}
		fmt.Fprintf(out, "✓ %s (run %s)\n", filepath.Join(dir, export.ManifestFile), m.RunID)
		return nil
	},
}

func outputDir(flag string) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return "out"
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output directory (default from config)")
	exportCmd.Flags().StringSliceVar(&exportFormats, "format", nil, "formats to write: csv, xlsx, json (default all)")
}
