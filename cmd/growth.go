package cmd

import (
	"strconv"

	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/spf13/cobra"
)

var growthGroup string

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Year-over-year change in cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := stats.ParseGroupKey(growthGroup, stats.GroupDepartment)
		if err != nil {
			return err
		}
		v, c, err := loadView()
		if err != nil {
			return err
		}
		rows, err := stats.GrowthRate(v, group, stats.TimeYear)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, rows)
		}
		filterLine(w, c)
		t := newTable(w, "Group", "Year", "Cases", "Change", "Change %")
		for _, g := range rows {
			t.Append([]string{
				g.Group,
				strconv.Itoa(g.Year),
				itoa(g.Cases),
				nullNum(g.AbsoluteChange, 0),
				nullNum(g.PercentChange, 1),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(growthCmd)
	addFilterFlags(growthCmd)
	addJSONFlag(growthCmd)
	growthCmd.Flags().StringVar(&growthGroup, "group", "department", "group: department, region, municipality")
}
