package cmd

import (
	"fmt"

	"github.com/KaramelBytes/antioquia-dashboard/internal/validate"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var qualityStrict bool

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Run the data quality checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := qualityOptions()
		if err != nil {
			return err
		}
		v, c, err := loadView()
		if err != nil {
			return err
		}
		q, err := validate.Check(v, opt)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON {
			if err := printJSON(w, q); err != nil {
				return err
			}
		} else {
			filterLine(w, c)
			fmt.Fprintf(w, "Records checked: %d\n", q.Records)
			if len(q.Issues) == 0 {
				fmt.Fprintln(w, color.GreenString("✓ No issues found"))
			}
			for _, is := range q.Issues {
				label := color.CyanString("[%s]", is.Severity)
				if is.Severity == validate.SeverityWarning {
					label = color.YellowString("[%s]", is.Severity)
				}
				fmt.Fprintf(w, "%s %s: %s\n", label, is.Code, is.Message)
			}
		}
		if qualityStrict && q.HasWarnings() {
			return fmt.Errorf("quality check reported warnings")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qualityCmd)
	addFilterFlags(qualityCmd)
	addJSONFlag(qualityCmd)
	qualityCmd.Flags().BoolVar(&qualityStrict, "strict", false, "exit with an error when any warning is reported")
}
