package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const fixture = "../testdata/suicidios_antioquia_sample.csv"

// resetFlags clears values and Changed state that persist across invocations
// of the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args in an isolated HOME and returns
// stdout and the command error.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)
	cfg = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	rootCmd.SetOut(nil)
	return out.String(), err
}

// runCmd is execCmd that fails the test on error.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func TestCLI_SummaryMarkdown(t *testing.T) {
	out := runCmd(t, "summary", "--data", fixture)
	for _, want := range []string{"[DATASET SUMMARY]", "[REGIONS]", "[TOP MUNICIPALITIES]", "[RISK INDEX]", "Medellín"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_SummaryToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "antioquia.md")
	runCmd(t, "summary", "--data", fixture, "--from", "2024", "-o", path)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), "[DATASET SUMMARY]") {
		t.Fatalf("unexpected report:\n%s", b)
	}
}

func TestCLI_RegionsFilteredJSON(t *testing.T) {
	out := runCmd(t, "regions", "--data", fixture, "--region", "Valle de Aburrá", "--json")
	var groups []struct {
		Region string `json:"region"`
		Cases  int64  `json:"cases"`
	}
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(groups) != 1 || groups[0].Cases != 517 {
		t.Fatalf("unexpected regions: %+v", groups)
	}
}

func TestCLI_RankingTopThree(t *testing.T) {
	out := runCmd(t, "ranking", "--data", fixture, "--top", "3", "--json")
	var ranked []struct {
		Name  string `json:"name"`
		Cases int64  `json:"cases"`
	}
	if err := json.Unmarshal([]byte(out), &ranked); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(ranked) != 3 || ranked[0].Name != "Medellín" || ranked[0].Cases != 395 {
		t.Fatalf("unexpected ranking: %+v", ranked)
	}

	table := runCmd(t, "ranking", "--data", fixture, "--top", "2")
	if !strings.Contains(table, "Medellín") || strings.Contains(table, "Caracolí") {
		t.Fatalf("unexpected table:\n%s", table)
	}
}

func TestCLI_RiskIndex(t *testing.T) {
	out := runCmd(t, "risk", "--data", fixture, "--json")
	var scores []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &scores); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(scores) != 12 || scores[0].Name != "Andes" {
		t.Fatalf("unexpected risk order: %+v", scores)
	}

	if _, err := execCmd(t, "risk", "--data", fixture, "--rate-weight", "0.9"); err == nil {
		t.Fatalf("expected error for weights that do not sum to 1")
	}
}

func TestCLI_Correlate(t *testing.T) {
	out := runCmd(t, "correlate", "--data", fixture, "--json")
	var res struct {
		Coefficient float64 `json:"coefficient"`
		N           int     `json:"n"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if math.Abs(res.Coefficient-0.99927) > 1e-3 || res.N != 24 {
		t.Fatalf("unexpected correlation: %+v", res)
	}

	_, err := execCmd(t, "correlate", "--data", fixture, "--municipality", "Caracolí", "--from", "2024")
	if !errors.Is(err, dataset.ErrInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestCLI_DescribeAndDuplicates(t *testing.T) {
	out := runCmd(t, "describe", "cases", "--data", fixture)
	if !strings.Contains(out, "median") {
		t.Fatalf("describe output:\n%s", out)
	}
	out = runCmd(t, "duplicates", "--data", fixture)
	if !strings.Contains(out, "No duplicates") {
		t.Fatalf("duplicates output:\n%s", out)
	}
}

func TestCLI_Quality(t *testing.T) {
	out := runCmd(t, "quality", "--data", fixture, "--json")
	var q struct {
		Records int `json:"records"`
	}
	if err := json.Unmarshal([]byte(out), &q); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if q.Records != 24 {
		t.Fatalf("records = %d, want 24", q.Records)
	}
}

func TestCLI_ExportAndChart(t *testing.T) {
	dir := t.TempDir()
	runCmd(t, "export", "--data", fixture, "-o", dir)
	for _, name := range []string{"registros.csv", "dashboard.xlsx", "dashboard.json", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	runCmd(t, "chart", "--data", fixture, "-o", dir)
	for _, name := range []string{"tendencia.png", "regiones.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	runCmd(t, "--config", cfgPath, "config", "set", "top_n", "5")
	out := runCmd(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out, "top_n: 5") {
		t.Fatalf("config show:\n%s", out)
	}
	if _, err := execCmd(t, "--config", cfgPath, "config", "set", "duplicate_key", "nope"); err == nil {
		t.Fatalf("expected error for invalid duplicate key")
	}
}

func TestCLI_Errors(t *testing.T) {
	if _, err := execCmd(t, "ranking", "--data", fixture, "--by", "bogus"); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
	if _, err := execCmd(t, "regions", "--data", fixture, "--municipality", "Bogotá"); err == nil {
		t.Fatalf("expected error for unknown municipality")
	}
	_, err := execCmd(t, "regions", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, dataset.ErrDataSource) {
		t.Fatalf("expected data source error, got %v", err)
	}
}
