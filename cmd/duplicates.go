package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/validate"
	"github.com/spf13/cobra"
)

var dupKey string

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List rows that share a duplicate key",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := dupKey
		if !cmd.Flags().Changed("key") && cfg != nil && cfg.DuplicateKey != "" {
			raw = cfg.DuplicateKey
		}
		key, err := validate.ParseKey(raw)
		if err != nil {
			return err
		}
		v, c, err := loadView()
		if err != nil {
			return err
		}
		groups, err := validate.FindDuplicates(v, key)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON {
			if groups == nil {
				groups = []validate.DuplicateGroup{}
			}
			return printJSON(w, groups)
		}
		filterLine(w, c)
		if len(groups) == 0 {
			fmt.Fprintf(w, "✓ No duplicates by %s\n", key)
			return nil
		}
		warnf("%d duplicate groups by %s", len(groups), key)
		t := newTable(w, "Key", "Rows")
		for _, g := range groups {
			rows := make([]string, len(g.Rows))
			for i, r := range g.Rows {
				rows[i] = strconv.Itoa(r)
			}
			t.Append([]string{g.Key, strings.Join(rows, ", ")})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)
	addFilterFlags(duplicatesCmd)
	addJSONFlag(duplicatesCmd)
	duplicatesCmd.Flags().StringVar(&dupKey, "key", string(validate.KeyMunicipalityYear), "duplicate key: municipality_year or full_row")
}
