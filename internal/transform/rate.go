package transform

import "github.com/KaramelBytes/antioquia-dashboard/internal/dataset"

// PerHundredThousand scales rates to cases per 100,000 inhabitants.
const PerHundredThousand = 100000

// Risk thresholds in cases per 100,000.
const (
	MediumRiskRate = 5.0
	HighRiskRate   = 10.0
)

// Rate returns cases per 100,000 or Undefined when population is not positive.
func Rate(cases int64, population float64) dataset.NullFloat {
	if population <= 0 {
		return dataset.Undefined
	}
	return dataset.Defined(float64(cases) / population * PerHundredThousand)
}

// ComputeRate sets the per-100,000 rate on every record.
func ComputeRate(t *dataset.Table) *dataset.Table {
	recs := t.Records()
	for i := range recs {
		recs[i].Rate = Rate(recs[i].Cases, float64(recs[i].Population))
	}
	return t.Derive(recs)
}

// RiskFor buckets a rate into a risk level.
func RiskFor(rate dataset.NullFloat) dataset.RiskLevel {
	switch {
	case !rate.Valid:
		return dataset.RiskUnknown
	case rate.Float64 < MediumRiskRate:
		return dataset.RiskLow
	case rate.Float64 < HighRiskRate:
		return dataset.RiskMedium
	default:
		return dataset.RiskHigh
	}
}

// ClassifyRisk labels every record from its rate. Run ComputeRate first;
// records without a rate are labeled unknown.
func ClassifyRisk(t *dataset.Table) *dataset.Table {
	recs := t.Records()
	for i := range recs {
		recs[i].RiskLevel = RiskFor(recs[i].Rate)
	}
	return t.Derive(recs)
}
