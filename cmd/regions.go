package cmd

import (
	"strconv"

	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Cases, population, share and rate per region",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, c, err := loadView()
		if err != nil {
			return err
		}
		groups := transform.GroupByRegion(v)
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, groups)
		}
		filterLine(w, c)
		t := newTable(w, "Region", "Municipalities", "Cases", "Population", "Share %", "Rate/100k")
		for _, g := range groups {
			t.Append([]string{
				g.Region.String(),
				strconv.Itoa(g.Municipalities),
				itoa(g.Cases),
				pop(g.Population),
				nullNum(g.Share, 1),
				nullNum(g.Rate, 2),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	addFilterFlags(regionsCmd)
	addJSONFlag(regionsCmd)
}
