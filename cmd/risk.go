package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/spf13/cobra"
)

var (
	riskWindowFlag   int
	riskRateWeight   float64
	riskGrowthWeight float64
	riskTop          int
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Composite risk index of recent rate and growth per municipality",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		window := riskWindow()
		if f.Changed("window") {
			window = riskWindowFlag
		}
		if window <= 0 {
			return fmt.Errorf("--window must be positive")
		}
		strategy := riskStrategy()
		if f.Changed("rate-weight") {
			strategy.Rate = riskRateWeight
		}
		if f.Changed("growth-weight") {
			strategy.Growth = riskGrowthWeight
		}
		if err := strategy.Validate(); err != nil {
			return err
		}

		v, c, err := loadView()
		if err != nil {
			return err
		}
		scores, err := stats.RiskIndex(v, stats.RiskOptions{WindowYears: window, Strategy: strategy})
		if err != nil {
			return err
		}
		if riskTop > 0 && len(scores) > riskTop {
			scores = scores[:riskTop]
		}
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, scores)
		}
		filterLine(w, c)
		if yr := stats.RecentYears(v, window); yr != nil {
			fmt.Fprintf(w, "Window: %d-%d (rate %.2f, growth %.2f)\n", yr.From, yr.To, strategy.Rate, strategy.Growth)
		}
		t := newTable(w, "#", "Municipality", "Region", "Cases", "Rate/100k", "Growth %", "Score", "Level")
		for i, s := range scores {
			t.Append([]string{
				strconv.Itoa(i + 1),
				s.Name,
				s.Region.String(),
				itoa(s.Cases),
				nullNum(s.Rate, 2),
				num(s.Growth, 1),
				nullNum(s.Score, 2),
				string(s.Level),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(riskCmd)
	addFilterFlags(riskCmd)
	addJSONFlag(riskCmd)
	riskCmd.Flags().IntVar(&riskWindowFlag, "window", stats.DefaultWindowYears, "number of most recent years to score")
	riskCmd.Flags().Float64Var(&riskRateWeight, "rate-weight", stats.DefaultRiskStrategy.Rate, "weight of the normalized rate")
	riskCmd.Flags().Float64Var(&riskGrowthWeight, "growth-weight", stats.DefaultRiskStrategy.Growth, "weight of the normalized growth")
	riskCmd.Flags().IntVar(&riskTop, "top", 0, "entries to show (0 for all)")
}
