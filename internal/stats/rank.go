package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
)

// Metric is a ranking criterion.
type Metric string

const (
	MetricCases      Metric = "cases"
	MetricRate       Metric = "rate"
	MetricPopulation Metric = "population"
	MetricGrowth     Metric = "growth"
)

// ParseMetric accepts a metric by name; empty selects cases.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "", "case_count":
		return MetricCases, nil
	case MetricCases, MetricRate, MetricPopulation, MetricGrowth:
		return m, nil
	default:
		return "", fmt.Errorf("unknown ranking metric %q", s)
	}
}

// RankOptions configures Rank.
type RankOptions struct {
	By        Metric
	Group     GroupKey // municipality when empty
	TopN      int      // 0 keeps every group
	Ascending bool
	// MaxPopulation keeps only municipalities whose mean population is
	// below it. 0 disables the restriction.
	MaxPopulation int64
}

// Ranked is one entry of a ranking.
type Ranked struct {
	Position       int               `json:"position"`
	Key            int               `json:"key"`
	Name           string            `json:"name"`
	Region         dataset.Region    `json:"region"`
	Value          dataset.NullFloat `json:"value"`
	Cases          int64             `json:"cases"`
	MeanPopulation float64           `json:"mean_population"`
	Rate           dataset.NullFloat `json:"rate"`
	Years          int               `json:"years"`
}

// Rank orders groups by the chosen metric. Ties break by group key
// ascending; undefined values sort last in either direction.
func Rank(t *dataset.Table, opt RankOptions) ([]Ranked, error) {
	by, err := ParseMetric(string(opt.By))
	if err != nil {
		return nil, err
	}
	g, err := ParseGroupKey(string(opt.Group), GroupMunicipality)
	if err != nil {
		return nil, err
	}
	if opt.MaxPopulation > 0 {
		t = smallMunicipalities(t, opt.MaxPopulation)
	}

	groups := collect(t, g)
	out := make([]Ranked, 0, len(groups))
	for _, yt := range groups {
		r := Ranked{
			Key:            yt.key,
			Name:           yt.name,
			Region:         yt.region,
			Cases:          yt.totalCases(),
			MeanPopulation: yt.meanPopulation(),
			Years:          len(yt.years),
		}
		r.Rate = transform.Rate(r.Cases, r.MeanPopulation)
		switch by {
		case MetricCases:
			r.Value = dataset.Defined(float64(r.Cases))
		case MetricPopulation:
			r.Value = dataset.Defined(r.MeanPopulation)
		case MetricRate:
			r.Value = r.Rate
		case MetricGrowth:
			r.Value = windowGrowth(yt)
		}
		if g == GroupDepartment {
			r.Region = dataset.RegionUnknown
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Float64 != b.Float64 {
			if opt.Ascending {
				return a.Float64 < b.Float64
			}
			return a.Float64 > b.Float64
		}
		return out[i].Key < out[j].Key
	})
	if opt.TopN > 0 && len(out) > opt.TopN {
		out = out[:opt.TopN]
	}
	for i := range out {
		out[i].Position = i + 1
	}
	return out, nil
}

// windowGrowth is the percent change in cases from a group's first to its
// last year in the view.
func windowGrowth(yt *yearTotals) dataset.NullFloat {
	if len(yt.years) < 2 {
		return dataset.Undefined
	}
	return percentChange(yt.cases[yt.years[0]], yt.cases[yt.years[len(yt.years)-1]])
}

func smallMunicipalities(t *dataset.Table, limit int64) *dataset.Table {
	keep := map[int]bool{}
	for _, yt := range collect(t, GroupMunicipality) {
		if yt.meanPopulation() < float64(limit) {
			keep[yt.key] = true
		}
	}
	var recs []dataset.Record
	for _, r := range t.Records() {
		if keep[r.MunicipalityCode] {
			recs = append(recs, r)
		}
	}
	return t.Derive(recs)
}
