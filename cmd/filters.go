package cmd

import (
	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/validate"
	"github.com/spf13/cobra"
)

// filterFlags are the view selectors shared by the analysis commands.
type filterFlags struct {
	from           int
	to             int
	regions        []string
	municipalities []string
}

var filter filterFlags

func addFilterFlags(c *cobra.Command) {
	c.Flags().IntVar(&filter.from, "from", 0, "first year of the view (inclusive)")
	c.Flags().IntVar(&filter.to, "to", 0, "last year of the view (inclusive)")
	c.Flags().StringSliceVar(&filter.regions, "region", nil, "restrict to region (repeatable)")
	c.Flags().StringSliceVar(&filter.municipalities, "municipality", nil, "restrict to municipality name or code (repeatable)")
}

// loadBase loads the dataset and resolves the filter flags against it.
func loadBase() (*dataset.Table, transform.Criteria, error) {
	base, err := datasetLoader().Load()
	if err != nil {
		return nil, transform.Criteria{}, err
	}
	c, err := transform.BuildCriteria(base, filter.from, filter.to, filter.regions, filter.municipalities)
	if err != nil {
		return nil, transform.Criteria{}, err
	}
	logger.Debug("dataset loaded", "path", datasetLoader().Path(), "records", base.Len(), "filter", c.String())
	return base, c, nil
}

// loadView returns the filtered, enriched view selected by the flags.
func loadView() (*dataset.Table, transform.Criteria, error) {
	base, c, err := loadBase()
	if err != nil {
		return nil, c, err
	}
	v, err := transform.View(base, c)
	if err != nil {
		return nil, c, err
	}
	if v.Len() == 0 {
		warnf("no records match the filter %s", c)
	}
	return v, c, nil
}

func topN() int {
	if cfg != nil && cfg.TopN > 0 {
		return cfg.TopN
	}
	return 10
}

func riskStrategy() stats.WeightedRisk {
	if cfg == nil || (cfg.RiskRateWeight == 0 && cfg.RiskGrowthWeight == 0) {
		return stats.DefaultRiskStrategy
	}
	return stats.WeightedRisk{Rate: cfg.RiskRateWeight, Growth: cfg.RiskGrowthWeight}
}

func riskWindow() int {
	if cfg != nil && cfg.RiskWindowYears > 0 {
		return cfg.RiskWindowYears
	}
	return stats.DefaultWindowYears
}

func qualityOptions() (validate.CheckOptions, error) {
	opt := validate.DefaultCheckOptions()
	if cfg == nil {
		return opt, nil
	}
	if cfg.MinYear > 0 {
		opt.MinYear = cfg.MinYear
	}
	if cfg.MaxYear > 0 {
		opt.MaxYear = cfg.MaxYear
	}
	key, err := validate.ParseKey(cfg.DuplicateKey)
	if err != nil {
		return opt, err
	}
	opt.Key = key
	return opt, nil
}
