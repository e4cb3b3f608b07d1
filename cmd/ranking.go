package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/spf13/cobra"
)

var (
	rankBy     string
	rankGroup  string
	rankTop    int
	rankAsc    bool
	rankSmall  bool
	rankMaxPop int64
)

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Rank municipalities or regions by cases, rate, population or growth",
	RunE: func(cmd *cobra.Command, args []string) error {
		by, err := stats.ParseMetric(rankBy)
		if err != nil {
			return err
		}
		group, err := stats.ParseGroupKey(rankGroup, stats.GroupMunicipality)
		if err != nil {
			return err
		}
		if rankTop < 0 || rankMaxPop < 0 {
			return fmt.Errorf("--top and --max-population must not be negative")
		}
		opt := stats.RankOptions{By: by, Group: group, TopN: rankTop, Ascending: rankAsc, MaxPopulation: rankMaxPop}
		if !cmd.Flags().Changed("top") {
			opt.TopN = topN()
		}
		if rankSmall && opt.MaxPopulation == 0 {
			opt.MaxPopulation = 10000
			if cfg != nil && cfg.SmallPopulationThreshold > 0 {
				opt.MaxPopulation = cfg.SmallPopulationThreshold
			}
		}

		v, c, err := loadView()
		if err != nil {
			return err
		}
		ranked, err := stats.Rank(v, opt)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, ranked)
		}
		filterLine(w, c)
		t := newTable(w, "#", "Name", "Region", string(by), "Cases", "Mean population", "Rate/100k", "Years")
		for _, r := range ranked {
			t.Append([]string{
				strconv.Itoa(r.Position),
				r.Name,
				r.Region.String(),
				nullNum(r.Value, 2),
				itoa(r.Cases),
				num(r.MeanPopulation, 0),
				nullNum(r.Rate, 2),
				strconv.Itoa(r.Years),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankingCmd)
	addFilterFlags(rankingCmd)
	addJSONFlag(rankingCmd)
	rankingCmd.Flags().StringVar(&rankBy, "by", "cases", "metric: cases, rate, population, growth")
	rankingCmd.Flags().StringVar(&rankGroup, "group", "municipality", "group: municipality, region, department")
	rankingCmd.Flags().IntVar(&rankTop, "top", 10, "entries to show (0 for all)")
	rankingCmd.Flags().BoolVar(&rankAsc, "asc", false, "sort ascending")
	rankingCmd.Flags().BoolVar(&rankSmall, "small", false, "only municipalities below the small-population threshold")
	rankingCmd.Flags().Int64Var(&rankMaxPop, "max-population", 0, "only municipalities with mean population below this value")
}
