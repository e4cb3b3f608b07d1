package cmd

import (
	"strconv"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [column]",
	Short: "Descriptive statistics of a numeric column (default cases)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		col := dataset.ColCases
		if len(args) == 1 {
			var err error
			if col, err = dataset.ParseColumn(args[0]); err != nil {
				return err
			}
		}
		v, c, err := loadView()
		if err != nil {
			return err
		}
		s, err := stats.Describe(v, col)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, s)
		}
		filterLine(w, c)
		t := newTable(w, "Statistic", string(col))
		t.AppendBulk([][]string{
			{"n", strconv.Itoa(s.N)},
			{"missing", strconv.Itoa(s.Missing)},
			{"unique", strconv.Itoa(s.Unique)},
			{"total", num(s.Total, 2)},
			{"mean", num(s.Mean, 2)},
			{"std", nullNum(s.Std, 2)},
			{"min", num(s.Min, 2)},
			{"q1", num(s.Q1, 2)},
			{"median", num(s.Median, 2)},
			{"q3", num(s.Q3, 2)},
			{"max", num(s.Max, 2)},
			{"iqr", num(s.IQR, 2)},
		})
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addFilterFlags(describeCmd)
	addJSONFlag(describeCmd)
}
