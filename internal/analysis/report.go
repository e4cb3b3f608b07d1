package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/validate"
)

// Options controls which view the report covers and how it ranks.
type Options struct {
	// Name labels the report, typically the source file name.
	Name     string
	Criteria transform.Criteria
	// TopN limits the municipality ranking; 0 means 10.
	TopN int
	// RankBy selects the ranking metric; empty means cases.
	RankBy  stats.Metric
	Risk    stats.RiskOptions
	Quality validate.CheckOptions
	// RiskRows limits rows printed in the risk section; 0 means 10.
	RiskRows int
}

// DefaultOptions returns reasonable defaults for the dashboard report.
func DefaultOptions() Options {
	return Options{
		TopN:     10,
		RankBy:   stats.MetricCases,
		Risk:     stats.RiskOptions{WindowYears: stats.DefaultWindowYears, Strategy: stats.DefaultRiskStrategy},
		Quality:  validate.DefaultCheckOptions(),
		RiskRows: 10,
	}
}

// Report is a markdown-friendly composition of every statistic the
// dashboard shows for one filtered view.
type Report struct {
	Name     string
	Filter   string
	Meta     stats.Metadata
	Regions  []transform.RegionAggregate
	TopBy    stats.Metric
	Top      []stats.Ranked
	Years    []transform.YearAggregate
	Growth   []stats.Growth
	Corr     *stats.CorrelationResult
	Risk     []stats.RiskScore
	RiskRows int
	Window   *transform.YearRange
	// Unavailable maps a section to the reason its statistic is not computable.
	Unavailable map[string]string
	Warnings    []string
}

// Section names used as keys of Report.Unavailable.
const (
	SectionTop         = "top"
	SectionCorrelation = "correlation"
	SectionRisk        = "risk"
)

// Build filters t, enriches the view and computes every section. Statistics
// that are not computable for the view are recorded in Unavailable rather
// than failing the report.
func Build(t *dataset.Table, opt Options) (*Report, error) {
	def := DefaultOptions()
	if opt.TopN <= 0 {
		opt.TopN = def.TopN
	}
	if opt.RankBy == "" {
		opt.RankBy = def.RankBy
	}
	if opt.RiskRows <= 0 {
		opt.RiskRows = def.RiskRows
	}

	view, err := transform.View(t, opt.Criteria)
	if err != nil {
		return nil, fmt.Errorf("build view: %w", err)
	}
	rep := &Report{
		Name:        opt.Name,
		Filter:      opt.Criteria.String(),
		Meta:        stats.Summarize(view),
		Regions:     transform.GroupByRegion(view),
		Years:       transform.GroupByYear(view),
		TopBy:       opt.RankBy,
		RiskRows:    opt.RiskRows,
		Unavailable: map[string]string{},
	}
	sortYears(rep.Years)

	if rep.Top, err = stats.Rank(view, stats.RankOptions{By: opt.RankBy, TopN: opt.TopN}); err != nil {
		return nil, err
	}
	if len(rep.Top) == 0 {
		rep.Unavailable[SectionTop] = "no municipalities in view"
	}
	if rep.Growth, err = stats.GrowthRate(view, stats.GroupDepartment, stats.TimeYear); err != nil {
		return nil, err
	}

	corr, err := stats.Correlate(view, dataset.ColPopulation, dataset.ColCases, stats.Pearson)
	if err := notComputable(rep, SectionCorrelation, err); err != nil {
		return nil, err
	}
	if err == nil {
		rep.Corr = &corr
	}

	rep.Window = stats.RecentYears(view, windowOr(opt.Risk.WindowYears))
	risk, err := stats.RiskIndex(view, opt.Risk)
	if err := notComputable(rep, SectionRisk, err); err != nil {
		return nil, err
	}
	rep.Risk = risk

	q, err := validate.Check(view, opt.Quality)
	if err != nil {
		return nil, err
	}
	for _, is := range q.Issues {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %s", is.Severity, is.Message))
	}
	if rep.Meta.Records == 0 {
		rep.Warnings = append(rep.Warnings, "no records match the filter "+rep.Filter)
	}
	return rep, nil
}

// notComputable records an InsufficientDataError against section and returns
// any other error unchanged.
func notComputable(rep *Report, section string, err error) error {
	if err == nil {
		return nil
	}
	var ide *dataset.InsufficientDataError
	if errors.As(err, &ide) {
		rep.Unavailable[section] = ide.Error()
		return nil
	}
	return err
}

func windowOr(n int) int {
	if n <= 0 {
		return stats.DefaultWindowYears
	}
	return n
}

func sortYears(ys []transform.YearAggregate) {
	sort.Slice(ys, func(i, j int) bool { return ys[i].Year < ys[j].Year })
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Filter: %s\n", r.Filter))
	m := r.Meta
	b.WriteString(fmt.Sprintf("Records: %d\n", m.Records))
	if m.Records > 0 {
		b.WriteString(fmt.Sprintf("Years: %d-%d (%d)\n", m.FirstYear, m.LastYear, m.Years))
	}
	b.WriteString(fmt.Sprintf("Municipalities: %d, regions: %d\n", m.Municipalities, m.Regions))
	b.WriteString(fmt.Sprintf("Total cases: %d, mean per year: %s\n", m.TotalCases, m.MeanAnnualCases.Format(1)))
	b.WriteString(fmt.Sprintf("Total population: %s\n", transform.FormatPopulation(m.TotalPopulation)))

	b.WriteString("\n[REGIONS]\n")
	if len(r.Regions) == 0 {
		b.WriteString("- none\n")
	}
	for _, g := range r.Regions {
		b.WriteString(fmt.Sprintf("- %s: %d cases (%s%%), rate %s per 100k, %d municipalities\n",
			g.Region, g.Cases, g.Share.Format(1), g.Rate.Format(2), g.Municipalities))
	}

	b.WriteString(fmt.Sprintf("\n[TOP MUNICIPALITIES] by %s\n", r.TopBy))
	if reason, ok := r.Unavailable[SectionTop]; ok {
		b.WriteString(fmt.Sprintf("- not computable: %s\n", reason))
	} else {
		b.WriteString("| # | Municipality | Region | Value | Cases | Rate |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, t := range r.Top {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d | %s |\n",
				t.Position, safeVal(t.Name), t.Region, t.Value.Format(2), t.Cases, t.Rate.Format(2)))
		}
	}

	b.WriteString("\n[YEARLY TREND]\n")
	growth := map[int]dataset.NullFloat{}
	for _, g := range r.Growth {
		growth[g.Year] = g.PercentChange
	}
	for _, y := range r.Years {
		b.WriteString(fmt.Sprintf("- %d: %d cases, rate %s per 100k", y.Year, y.Cases, y.Rate.Format(2)))
		if pc := growth[y.Year]; pc.Valid {
			b.WriteString(fmt.Sprintf(", change %+.1f%%", pc.Float64))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[CORRELATION]\n")
	if c := r.Corr; c != nil {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.4f (%s %s, n=%d, p=%s", c.A, c.B, c.Coefficient, c.Strength, c.Direction, c.N, c.PValue.Format(4)))
		if c.Significant {
			b.WriteString(", significant")
		}
		b.WriteString(")\n")
	} else {
		b.WriteString(fmt.Sprintf("- not computable: %s\n", r.Unavailable[SectionCorrelation]))
	}

	b.WriteString("\n[RISK INDEX]")
	if r.Window != nil {
		b.WriteString(fmt.Sprintf(" %d-%d", r.Window.From, r.Window.To))
	}
	b.WriteString("\n")
	if reason, ok := r.Unavailable[SectionRisk]; ok {
		b.WriteString(fmt.Sprintf("- not computable: %s\n", reason))
	} else {
		lim := r.RiskRows
		if lim <= 0 || lim > len(r.Risk) {
			lim = len(r.Risk)
		}
		for i := 0; i < lim; i++ {
			s := r.Risk[i]
			b.WriteString(fmt.Sprintf("- %s (%s): score %s, rate %s, growth %+.1f%%, %s\n",
				safeVal(s.Name), s.Region, s.Score.Format(1), s.Rate.Format(2), s.Growth, s.Level))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
