package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// asJSON switches the table output of a command to indented JSON.
var asJSON bool

func addJSONFlag(c *cobra.Command) {
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
}

func printJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	return t
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func pop(n int64) string { return transform.FormatPopulation(n) }

func num(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }

func nullNum(v dataset.NullFloat, prec int) string { return v.Format(prec) }

func filterLine(w io.Writer, c transform.Criteria) {
	fmt.Fprintf(w, "Filter: %s\n", c)
}
