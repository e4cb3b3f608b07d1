package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/utils"
)

// Format is an output file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormats accepts a list of format names; empty selects all three.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return []Format{FormatCSV, FormatXLSX, FormatJSON}, nil
	}
	out := make([]Format, 0, len(names))
	for _, n := range names {
		switch f := Format(strings.ToLower(strings.TrimSpace(n))); f {
		case FormatCSV, FormatXLSX, FormatJSON:
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown export format %q", n)
		}
	}
	return out, nil
}

// Bundle is everything one export run writes.
type Bundle struct {
	Source   string
	Criteria transform.Criteria
	View     *dataset.Table
	Regions  []transform.RegionAggregate
	Ranking  []stats.Ranked
	Risk     []stats.RiskScore
}

// jsonBundle is the document written by FormatJSON.
type jsonBundle struct {
	Filter  string                      `json:"filter"`
	Records []dataset.Record            `json:"records"`
	Regions []transform.RegionAggregate `json:"regions"`
	Ranking []stats.Ranked              `json:"ranking"`
	Risk    []stats.RiskScore           `json:"risk,omitempty"`
}

// Run writes b into dir in each format, then the manifest, and returns the
// manifest.
func Run(dir string, b Bundle, formats []Format) (*Manifest, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	m := NewManifest(b.Source, b.Criteria.String(), b.View.Len())
	for _, f := range formats {
		var (
			path string
			err  error
		)
		switch f {
		case FormatCSV:
			path = filepath.Join(dir, "registros.csv")
			err = SaveCSV(path, b.View)
		case FormatXLSX:
			path = filepath.Join(dir, "dashboard.xlsx")
			err = SaveXLSX(path, Workbook{Records: b.View, Regions: b.Regions, Ranking: b.Ranking, Risk: b.Risk})
		case FormatJSON:
			path = filepath.Join(dir, "dashboard.json")
			err = SaveJSON(path, jsonBundle{
				Filter:  m.Filter,
				Records: b.View.Records(),
				Regions: b.Regions,
				Ranking: b.Ranking,
				Risk:    b.Risk,
			})
		default:
			err = fmt.Errorf("unknown export format %q", f)
		}
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", f, err)
		}
		m.Add(path)
	}
	if err := WriteManifest(dir, m); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return m, nil
}
