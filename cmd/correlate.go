package cmd

import (
	"fmt"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/spf13/cobra"
)

var (
	corrMethod string
	corrMatrix bool
)

var correlateCmd = &cobra.Command{
	Use:   "correlate [column-a] [column-b]",
	Short: "Correlation between two numeric columns (default population and cases)",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, err := stats.ParseMethod(corrMethod)
		if err != nil {
			return err
		}
		cols := []dataset.Column{dataset.ColPopulation, dataset.ColCases}
		for i, a := range args {
			if cols[i], err = dataset.ParseColumn(a); err != nil {
				return err
			}
		}
		v, c, err := loadView()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if corrMatrix {
			m := stats.CorrelationMatrix(v, []dataset.Column{dataset.ColCases, dataset.ColPopulation, dataset.ColRate, dataset.ColYear})
			if asJSON {
				return printJSON(w, m)
			}
			filterLine(w, c)
			header := []string{""}
			for _, col := range m.Columns {
				header = append(header, string(col))
			}
			t := newTable(w, header...)
			for i, row := range m.Values {
				line := []string{string(m.Columns[i])}
				for _, val := range row {
					line = append(line, nullNum(val, 3))
				}
				t.Append(line)
			}
			t.Render()
			return nil
		}

		res, err := stats.Correlate(v, cols[0], cols[1], method)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(w, res)
		}
		filterLine(w, c)
		fmt.Fprintf(w, "%s r(%s, %s) = %.4f over %d rows\n", res.Method, res.A, res.B, res.Coefficient, res.N)
		fmt.Fprintf(w, "Strength: %s %s\n", res.Strength, res.Direction)
		fmt.Fprintf(w, "p-value: %s (significant at %.2f: %t)\n", res.PValue.Format(4), stats.SignificanceLevel, res.Significant)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	addFilterFlags(correlateCmd)
	addJSONFlag(correlateCmd)
	correlateCmd.Flags().StringVar(&corrMethod, "method", "pearson", "pearson or spearman")
	correlateCmd.Flags().BoolVar(&corrMatrix, "matrix", false, "print the Pearson matrix of cases, population, rate and year")
}
