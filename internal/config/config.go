package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// HTTP dashboard
	HTTPAddr           string `mapstructure:"http_addr" yaml:"http_addr"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Data quality
	MinYear      int    `mapstructure:"min_year" yaml:"min_year"`
	MaxYear      int    `mapstructure:"max_year" yaml:"max_year"`
	DuplicateKey string `mapstructure:"duplicate_key" yaml:"duplicate_key"`

	// Risk index and rankings
	RiskRateWeight           float64 `mapstructure:"risk_rate_weight" yaml:"risk_rate_weight"`
	RiskGrowthWeight         float64 `mapstructure:"risk_growth_weight" yaml:"risk_growth_weight"`
	RiskWindowYears          int     `mapstructure:"risk_window_years" yaml:"risk_window_years"`
	TopN                     int     `mapstructure:"top_n" yaml:"top_n"`
	SmallPopulationThreshold int64   `mapstructure:"small_population_threshold" yaml:"small_population_threshold"`
}

// Dir returns ~/.antioquia.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".antioquia"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.antioquia/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ANTIOQUIA")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_path", "static/datasets/suicidios_antioquia.csv")
	v.SetDefault("output_dir", "out")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("shutdown_timeout_sec", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("min_year", 2005)
	v.SetDefault("max_year", 2024)
	v.SetDefault("duplicate_key", "municipality_year")
	v.SetDefault("risk_rate_weight", 0.6)
	v.SetDefault("risk_growth_weight", 0.4)
	v.SetDefault("risk_window_years", 3)
	v.SetDefault("top_n", 10)
	v.SetDefault("small_population_threshold", 10000)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
