package stats

import (
	"math"
	"sort"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of one column.
type Summary struct {
	Column  dataset.Column    `json:"column"`
	N       int               `json:"n"`
	Missing int               `json:"missing"`
	Unique  int               `json:"unique"`
	Total   float64           `json:"total"`
	Mean    float64           `json:"mean"`
	Std     dataset.NullFloat `json:"std"`
	Min     float64           `json:"min"`
	Q1      float64           `json:"q1"`
	Median  float64           `json:"median"`
	Q3      float64           `json:"q3"`
	Max     float64           `json:"max"`
	IQR     float64           `json:"iqr"`
}

// Describe summarizes col over the rows where it is defined. Quartiles use
// linear interpolation between order statistics.
func Describe(t *dataset.Table, col dataset.Column) (Summary, error) {
	s := Summary{Column: col}
	var vals []float64
	uniq := map[float64]bool{}
	for _, r := range t.Records() {
		v, ok := col.Value(r)
		if !ok {
			s.Missing++
			continue
		}
		vals = append(vals, v)
		uniq[v] = true
	}
	s.N = len(vals)
	if s.N == 0 {
		return s, &dataset.InsufficientDataError{Statistic: "describe " + string(col), Need: 1, Got: 0}
	}
	s.Unique = len(uniq)
	sort.Float64s(vals)
	for _, v := range vals {
		s.Total += v
	}
	mean, std := stat.MeanStdDev(vals, nil)
	s.Mean = mean
	if s.N > 1 {
		s.Std = dataset.Defined(std)
	}
	s.Min, s.Max = vals[0], vals[len(vals)-1]
	s.Q1 = quantile(vals, 0.25)
	s.Median = quantile(vals, 0.5)
	s.Q3 = quantile(vals, 0.75)
	s.IQR = s.Q3 - s.Q1
	return s, nil
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
