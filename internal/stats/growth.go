package stats

import (
	"fmt"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
)

// Growth is the change in cases of one group between consecutive periods.
type Growth struct {
	Group          string            `json:"group"`
	Key            int               `json:"key"`
	Year           int               `json:"year"`
	Cases          int64             `json:"cases"`
	AbsoluteChange dataset.NullFloat `json:"absolute_change"`
	PercentChange  dataset.NullFloat `json:"percent_change"`
}

// GrowthRate returns per-group, per-period case changes against the previous
// period present in the view. The first period of every group is undefined,
// as is a percent change from zero cases.
func GrowthRate(t *dataset.Table, g GroupKey, tk TimeKey) ([]Growth, error) {
	if tk != "" && tk != TimeYear {
		return nil, fmt.Errorf("unknown time key %q", tk)
	}
	if g == "" {
		g = GroupDepartment
	}
	if _, err := ParseGroupKey(string(g), g); err != nil {
		return nil, err
	}
	var out []Growth
	for _, yt := range collect(t, g) {
		for i, y := range yt.years {
			gr := Growth{Group: yt.name, Key: yt.key, Year: y, Cases: yt.cases[y]}
			if i > 0 {
				prev := yt.cases[yt.years[i-1]]
				gr.AbsoluteChange = dataset.Defined(float64(gr.Cases - prev))
				gr.PercentChange = percentChange(prev, gr.Cases)
			}
			out = append(out, gr)
		}
	}
	return out, nil
}

func percentChange(from, to int64) dataset.NullFloat {
	if from == 0 {
		return dataset.Undefined
	}
	return dataset.Defined(float64(to-from) / float64(from) * 100)
}
