package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
)

// RiskStrategy combines the normalized rate and growth (both 0..100) into a
// single score.
type RiskStrategy interface {
	Score(rateNorm, growthNorm float64) float64
}

// WeightedRisk is a linear combination whose weights must sum to 1.
type WeightedRisk struct {
	Rate   float64 `json:"rate_weight"`
	Growth float64 `json:"growth_weight"`
}

// DefaultRiskStrategy weighs recent rate over growth.
var DefaultRiskStrategy = WeightedRisk{Rate: 0.6, Growth: 0.4}

func (w WeightedRisk) Score(rateNorm, growthNorm float64) float64 {
	return w.Rate*rateNorm + w.Growth*growthNorm
}

// Validate checks the weights are non-negative and sum to 1.
func (w WeightedRisk) Validate() error {
	if w.Rate < 0 || w.Growth < 0 {
		return fmt.Errorf("risk weights must be non-negative (rate %.3f, growth %.3f)", w.Rate, w.Growth)
	}
	if math.Abs(w.Rate+w.Growth-1) > 0.001 {
		return fmt.Errorf("risk weights must sum to 1, got %.3f", w.Rate+w.Growth)
	}
	return nil
}

// RiskOptions configures RiskIndex.
type RiskOptions struct {
	WindowYears int          // 3 when zero
	Strategy    RiskStrategy // DefaultRiskStrategy when nil
}

// DefaultWindowYears is the recency window of the risk index.
const DefaultWindowYears = 3

// RiskScore is one municipality's position on the risk index.
type RiskScore struct {
	Code           int               `json:"code"`
	Name           string            `json:"name"`
	Region         dataset.Region    `json:"region"`
	Cases          int64             `json:"cases"`
	MeanPopulation float64           `json:"mean_population"`
	Rate           dataset.NullFloat `json:"rate"`
	Growth         float64           `json:"growth_pct"`
	RateNorm       float64           `json:"rate_norm"`
	GrowthNorm     float64           `json:"growth_norm"`
	Score          dataset.NullFloat `json:"score"`
	Level          dataset.RiskLevel `json:"risk_level"`
}

// RiskIndex scores every municipality over the last WindowYears years of the
// view. Rate and growth are min-max normalized over the view itself, so
// scores are only comparable within one filter. Municipalities without a
// defined rate get no score and sort last.
func RiskIndex(t *dataset.Table, opt RiskOptions) ([]RiskScore, error) {
	if opt.WindowYears <= 0 {
		opt.WindowYears = DefaultWindowYears
	}
	if opt.Strategy == nil {
		opt.Strategy = DefaultRiskStrategy
	}
	if v, ok := opt.Strategy.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if t.Len() == 0 {
		return nil, &dataset.InsufficientDataError{Statistic: "risk index", Need: 1, Got: 0}
	}

	window := transform.Filter(t, transform.Criteria{Years: RecentYears(t, opt.WindowYears)})
	groups := collect(window, GroupMunicipality)
	out := make([]RiskScore, 0, len(groups))
	var rates, growths []float64
	for _, yt := range groups {
		s := RiskScore{
			Code:           yt.key,
			Name:           yt.name,
			Region:         yt.region,
			Cases:          yt.totalCases(),
			MeanPopulation: yt.meanPopulation(),
			Growth:         windowGrowth(yt).Or(0),
		}
		s.Rate = transform.Rate(s.Cases, s.MeanPopulation)
		s.Level = transform.RiskFor(s.Rate)
		if s.Rate.Valid {
			rates = append(rates, s.Rate.Float64)
			growths = append(growths, s.Growth)
		}
		out = append(out, s)
	}
	if len(rates) == 0 {
		return nil, &dataset.InsufficientDataError{Statistic: "risk index", Reason: "no municipality has a defined rate"}
	}

	rlo, rhi := bounds(rates)
	glo, ghi := bounds(growths)
	for i := range out {
		if !out[i].Rate.Valid {
			continue
		}
		out[i].RateNorm = minMax(out[i].Rate.Float64, rlo, rhi)
		out[i].GrowthNorm = minMax(out[i].Growth, glo, ghi)
		out[i].Score = dataset.Defined(opt.Strategy.Score(out[i].RateNorm, out[i].GrowthNorm))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Score, out[j].Score
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Float64 != b.Float64 {
			return a.Float64 > b.Float64
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// RecentYears returns the range spanning the last n distinct years of t.
func RecentYears(t *dataset.Table, n int) *transform.YearRange {
	seen := map[int]bool{}
	var years []int
	for _, r := range t.Records() {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	if len(years) == 0 {
		return nil
	}
	sort.Ints(years)
	if n > 0 && len(years) > n {
		years = years[len(years)-n:]
	}
	return &transform.YearRange{From: years[0], To: years[len(years)-1]}
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

// minMax scales v to 0..100; a flat range maps to 50.
func minMax(v, lo, hi float64) float64 {
	if hi == lo {
		return 50
	}
	return (v - lo) / (hi - lo) * 100
}
