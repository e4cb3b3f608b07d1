package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
)

// GroupKey selects the unit that statistics are computed per.
type GroupKey string

const (
	GroupDepartment   GroupKey = "department"
	GroupRegion       GroupKey = "region"
	GroupMunicipality GroupKey = "municipality"
)

// Department is the label of the whole-department group.
const Department = "Antioquia"

// ParseGroupKey accepts a group by name; empty selects def.
func ParseGroupKey(s string, def GroupKey) (GroupKey, error) {
	switch g := GroupKey(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return def, nil
	case GroupDepartment, GroupRegion, GroupMunicipality:
		return g, nil
	default:
		return "", fmt.Errorf("unknown group %q", s)
	}
}

// TimeKey selects the period column.
type TimeKey string

const TimeYear TimeKey = "year"

// groupOf returns the numeric key and display name of r's group.
func groupOf(r dataset.Record, g GroupKey) (int, string) {
	switch g {
	case GroupRegion:
		return int(r.Region), r.Region.String()
	case GroupMunicipality:
		return r.MunicipalityCode, r.MunicipalityName
	default:
		return 0, Department
	}
}

// yearTotals is one group's case and population sums per year, years ascending.
type yearTotals struct {
	key    int
	name   string
	region dataset.Region
	years  []int
	cases  map[int]int64
	pop    map[int]int64
}

func (y *yearTotals) add(r dataset.Record) {
	if _, ok := y.cases[r.Year]; !ok {
		y.years = append(y.years, r.Year)
	}
	y.cases[r.Year] += r.Cases
	y.pop[r.Year] += r.Population
}

func (y *yearTotals) totalCases() int64 {
	var n int64
	for _, c := range y.cases {
		n += c
	}
	return n
}

// meanPopulation averages the group's yearly population totals.
func (y *yearTotals) meanPopulation() float64 {
	if len(y.years) == 0 {
		return 0
	}
	var n int64
	for _, p := range y.pop {
		n += p
	}
	return float64(n) / float64(len(y.years))
}

// collect groups t by g in order of first appearance with sorted years.
func collect(t *dataset.Table, g GroupKey) []*yearTotals {
	idx := map[int]*yearTotals{}
	var out []*yearTotals
	for _, r := range t.Records() {
		k, name := groupOf(r, g)
		yt, ok := idx[k]
		if !ok {
			yt = &yearTotals{key: k, name: name, region: r.Region, cases: map[int]int64{}, pop: map[int]int64{}}
			idx[k] = yt
			out = append(out, yt)
		}
		yt.add(r)
	}
	for _, yt := range out {
		sort.Ints(yt.years)
	}
	return out
}
