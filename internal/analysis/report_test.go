package analysis

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/loader"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
)

func loadFixture(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := loader.New("../../testdata/suicidios_antioquia_sample.csv").Load()
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return tbl
}

func TestBuildAndMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.Name = "suicidios_antioquia_sample.csv"
	opt.TopN = 3
	rep, err := Build(loadFixture(t), opt)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rep.Meta.TotalCases != 620 || rep.Meta.Municipalities != 12 {
		t.Fatalf("unexpected metadata: %+v", rep.Meta)
	}
	if len(rep.Top) != 3 || rep.Top[0].Name != "Medellín" {
		t.Fatalf("unexpected ranking: %+v", rep.Top)
	}
	if rep.Corr == nil || rep.Corr.Coefficient < 0.99 {
		t.Fatalf("expected strong correlation, got %+v", rep.Corr)
	}
	if len(rep.Unavailable) != 0 {
		t.Fatalf("unexpected unavailable sections: %v", rep.Unavailable)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]", "File: suicidios_antioquia_sample.csv", "Records: 24", "Years: 2023-2024 (2)",
		"Total population: 8,018,305",
		"[REGIONS]", "- Valle de Aburrá: 517 cases",
		"[TOP MUNICIPALITIES] by cases", "| 1 | Medellín | Valle de Aburrá | 395.00 | 395 |",
		"[YEARLY TREND]", "- 2024: 322 cases", "change +8.1%",
		"[CORRELATION]", "very strong positive", "significant",
		"[RISK INDEX] 2023-2024", "- Andes (Suroeste): score 80.4",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "[NOTES]") {
		t.Fatalf("clean fixture should have no notes:\n%s", md)
	}
}

func TestBuildSingleMunicipalityMarksCorrelationNotComputable(t *testing.T) {
	opt := DefaultOptions()
	opt.Criteria = transform.Criteria{Municipalities: []int{5001}, Years: &transform.YearRange{From: 2024, To: 2024}}
	rep, err := Build(loadFixture(t), opt)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rep.Corr != nil {
		t.Fatalf("correlation over one row should not be computable")
	}
	md := rep.Markdown()
	if !strings.Contains(md, "[CORRELATION]\n- not computable: correlation not computable") {
		t.Fatalf("expected not computable line:\n%s", md)
	}
	if !strings.Contains(md, "score 50.0") {
		t.Fatalf("single municipality should score flat 50:\n%s", md)
	}
}

func TestBuildEmptyView(t *testing.T) {
	opt := DefaultOptions()
	opt.Criteria = transform.Criteria{Years: &transform.YearRange{From: 2005, To: 2006}}
	rep, err := Build(loadFixture(t), opt)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	md := rep.Markdown()
	for _, want := range []string{"Records: 0", "[REGIONS]\n- none", "[RISK INDEX]\n- not computable", "[NOTES]", "no records match the filter years=2005..2006"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestBuildRejectsBadWeights(t *testing.T) {
	opt := DefaultOptions()
	opt.Risk.Strategy = stats.WeightedRisk{Rate: 0.9, Growth: 0.9}
	if _, err := Build(loadFixture(t), opt); err == nil {
		t.Fatalf("expected weight validation error")
	}
}

func TestBuildNotesQualityIssues(t *testing.T) {
	tbl := dataset.NewTable([]dataset.Record{
		{Row: 1, MunicipalityCode: 5001, MunicipalityName: "Medellín", Region: dataset.ValleDeAburra, RegionCode: 1, Year: 2024, Cause: "Suicidios", Population: 1000, Cases: 1},
		{Row: 2, MunicipalityCode: 5001, MunicipalityName: "Medellín", Region: dataset.ValleDeAburra, RegionCode: 1, Year: 2024, Cause: "Suicidios", Population: 1000, Cases: 2},
	})
	rep, err := Build(tbl, DefaultOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	md := rep.Markdown()
	if !strings.Contains(md, "[NOTES]\n- warning: 2 rows share key 5001/2024") {
		t.Fatalf("expected duplicate note:\n%s", md)
	}
}
