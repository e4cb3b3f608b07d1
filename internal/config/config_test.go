package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DataPath != "static/datasets/suicidios_antioquia.csv" {
		t.Fatalf("unexpected data path: %q", c.DataPath)
	}
	if c.RiskRateWeight != 0.6 || c.RiskGrowthWeight != 0.4 || c.RiskWindowYears != 3 {
		t.Fatalf("unexpected risk defaults: %+v", c)
	}
	if c.DuplicateKey != "municipality_year" || c.SmallPopulationThreshold != 10000 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestSaveLoadRoundTripAndEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{DataPath: "data.csv", HTTPAddr: ":9090", TopN: 5, RiskRateWeight: 0.7, RiskGrowthWeight: 0.3}
	if err := Save(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	t.Setenv("ANTIOQUIA_TOP_N", "7")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DataPath != "data.csv" || c.HTTPAddr != ":9090" || c.RiskRateWeight != 0.7 {
		t.Fatalf("file values not loaded: %+v", c)
	}
	if c.TopN != 7 {
		t.Fatalf("env override not applied: top_n=%d", c.TopN)
	}
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := Save(&Global{LogLevel: "debug"}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".antioquia", "config.yaml")); err != nil {
		t.Fatalf("expected default config file: %v", err)
	}
}
