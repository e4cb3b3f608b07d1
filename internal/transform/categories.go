package transform

import (
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
)

// CoerceCategories resolves region names to the fixed Region domain and
// records the ordered target-population domain on the table. An unknown region
// name is a parse error for that row.
func CoerceCategories(t *dataset.Table) (*dataset.Table, error) {
	recs := t.Records()
	var (
		regions  []dataset.Region
		popTypes []dataset.PopulationType
		seenReg  = map[dataset.Region]bool{}
		seenPop  = map[dataset.PopulationType]bool{}
	)
	for i := range recs {
		r := &recs[i]
		if r.RegionName != "" {
			reg, err := dataset.ParseRegion(r.RegionName)
			if err != nil {
				return nil, &dataset.ParseError{Row: r.Row, Column: dataset.HeaderRegionName, Value: r.RegionName, Err: err}
			}
			r.Region = reg
		}
		if !r.Region.Valid() {
			return nil, &dataset.ParseError{Row: r.Row, Column: dataset.HeaderRegionName, Value: r.RegionName}
		}
		if !seenReg[r.Region] {
			seenReg[r.Region] = true
			regions = append(regions, r.Region)
		}

		if name := strings.TrimSpace(r.PopulationTypeName); name != "" {
			r.PopulationType = dataset.PopulationType(name)
		}
		if r.PopulationType != "" && !seenPop[r.PopulationType] {
			seenPop[r.PopulationType] = true
			popTypes = append(popTypes, r.PopulationType)
		}
	}
	return dataset.NewCategorizedTable(recs, regions, popTypes), nil
}
