// Package stats computes aggregate statistics over a filtered view. Functions
// return errors to the caller and never log or retry.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Method selects the correlation coefficient.
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
)

// ParseMethod accepts a method by name; empty selects Pearson.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", Pearson:
		return Pearson, nil
	case Spearman:
		return Spearman, nil
	default:
		return "", fmt.Errorf("unknown correlation method %q", s)
	}
}

// SignificanceLevel is the p-value below which a correlation is significant.
const SignificanceLevel = 0.05

// CorrelationResult describes one coefficient and how much to trust it.
type CorrelationResult struct {
	A           dataset.Column    `json:"a"`
	B           dataset.Column    `json:"b"`
	Method      Method            `json:"method"`
	Coefficient float64           `json:"coefficient"`
	PValue      dataset.NullFloat `json:"p_value"`
	Strength    string            `json:"strength"`
	Direction   string            `json:"direction"`
	Significant bool              `json:"significant"`
	N           int               `json:"n"`
}

// Correlation returns Pearson's r over rows where both columns are defined.
func Correlation(t *dataset.Table, a, b dataset.Column) (float64, error) {
	x, y := pairs(t, a, b)
	if err := checkPairs(x, y, a, b); err != nil {
		return 0, err
	}
	return clamp(stat.Correlation(x, y, nil)), nil
}

// Correlate computes the coefficient with a two-sided p-value from the
// Student t distribution with n-2 degrees of freedom.
func Correlate(t *dataset.Table, a, b dataset.Column, m Method) (CorrelationResult, error) {
	if m == "" {
		m = Pearson
	}
	x, y := pairs(t, a, b)
	if err := checkPairs(x, y, a, b); err != nil {
		return CorrelationResult{}, err
	}
	var r float64
	switch m {
	case Pearson:
		r = stat.Correlation(x, y, nil)
	case Spearman:
		r = stat.Correlation(ranks(x), ranks(y), nil)
	default:
		return CorrelationResult{}, fmt.Errorf("unknown correlation method %q", m)
	}
	r = clamp(r)
	res := CorrelationResult{
		A:           a,
		B:           b,
		Method:      m,
		Coefficient: r,
		PValue:      pValue(r, len(x)),
		Strength:    Strength(r),
		Direction:   direction(r),
		N:           len(x),
	}
	res.Significant = res.PValue.Valid && res.PValue.Float64 < SignificanceLevel
	return res, nil
}

// Strength labels |r| on the usual five-step scale.
func Strength(r float64) string {
	switch a := math.Abs(r); {
	case a >= 0.9:
		return "very strong"
	case a >= 0.7:
		return "strong"
	case a >= 0.5:
		return "moderate"
	case a >= 0.3:
		return "weak"
	default:
		return "very weak"
	}
}

func direction(r float64) string {
	switch {
	case r > 0:
		return "positive"
	case r < 0:
		return "negative"
	default:
		return "none"
	}
}

func pValue(r float64, n int) dataset.NullFloat {
	if n <= 2 {
		return dataset.Undefined
	}
	if math.Abs(r) >= 1 {
		return dataset.Defined(0)
	}
	df := float64(n - 2)
	tstat := math.Abs(r) * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return dataset.Defined(2 * dist.Survival(tstat))
}

// Matrix is a symmetric correlation matrix; entries that are not computable
// are undefined.
type Matrix struct {
	Columns []dataset.Column      `json:"columns"`
	Values  [][]dataset.NullFloat `json:"values"`
}

// CorrelationMatrix computes Pearson's r for every pair of cols.
func CorrelationMatrix(t *dataset.Table, cols []dataset.Column) Matrix {
	n := len(cols)
	m := Matrix{Columns: append([]dataset.Column(nil), cols...), Values: make([][]dataset.NullFloat, n)}
	for i := range m.Values {
		m.Values[i] = make([]dataset.NullFloat, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r, err := Correlation(t, cols[i], cols[j])
			v := dataset.Undefined
			if err == nil {
				v = dataset.Defined(r)
			}
			m.Values[i][j], m.Values[j][i] = v, v
		}
	}
	return m
}

func pairs(t *dataset.Table, a, b dataset.Column) (x, y []float64) {
	for _, r := range t.Records() {
		va, oka := a.Value(r)
		vb, okb := b.Value(r)
		if !oka || !okb {
			continue
		}
		x = append(x, va)
		y = append(y, vb)
	}
	return x, y
}

func checkPairs(x, y []float64, a, b dataset.Column) error {
	if len(x) < 2 {
		return &dataset.InsufficientDataError{Statistic: "correlation", Need: 2, Got: len(x)}
	}
	if constant(x) {
		return &dataset.InsufficientDataError{Statistic: "correlation", Reason: fmt.Sprintf("%s has zero variance", a)}
	}
	if constant(y) {
		return &dataset.InsufficientDataError{Statistic: "correlation", Reason: fmt.Sprintf("%s has zero variance", b)}
	}
	return nil
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

func clamp(r float64) float64 {
	if r > 1 {
		return 1
	} else if r < -1 {
		return -1
	}
	return r
}

// ranks assigns 1-based ranks, averaging ties.
func ranks(v []float64) []float64 {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return v[idx[i]] < v[idx[j]] })
	out := make([]float64, len(v))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && v[idx[j+1]] == v[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
