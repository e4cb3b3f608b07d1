package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/antioquia-dashboard/internal/analysis"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/utils"
	"github.com/spf13/cobra"
)

var (
	summaryRankBy string
	summaryOut    string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard report as markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		by, err := stats.ParseMetric(summaryRankBy)
		if err != nil {
			return err
		}
		qopt, err := qualityOptions()
		if err != nil {
			return err
		}
		base, c, err := loadBase()
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.Name = filepath.Base(datasetLoader().Path())
		opt.Criteria = c
		opt.TopN = topN()
		opt.RankBy = by
		opt.Risk = stats.RiskOptions{WindowYears: riskWindow(), Strategy: riskStrategy()}
		opt.Quality = qopt
		rep, err := analysis.Build(base, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if summaryOut != "" {
			if err := utils.SafeWriteFile(summaryOut, []byte(md)); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", summaryOut)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryRankBy, "by", "cases", "ranking metric: cases, rate, population, growth")
	summaryCmd.Flags().StringVarP(&summaryOut, "out", "o", "", "write the report to a file instead of stdout")
}
