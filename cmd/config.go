package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/antioquia-dashboard/internal/config"
	"github.com/KaramelBytes/antioquia-dashboard/internal/validate"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "data_path: %s\n", cfg.DataPath)
		fmt.Fprintf(w, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(w, "http_addr: %s\n", cfg.HTTPAddr)
		fmt.Fprintf(w, "shutdown_timeout_sec: %d\n", cfg.ShutdownTimeoutSec)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(w, "min_year: %d\n", cfg.MinYear)
		fmt.Fprintf(w, "max_year: %d\n", cfg.MaxYear)
		fmt.Fprintf(w, "duplicate_key: %s\n", cfg.DuplicateKey)
		fmt.Fprintf(w, "risk_rate_weight: %.3f\n", cfg.RiskRateWeight)
		fmt.Fprintf(w, "risk_growth_weight: %.3f\n", cfg.RiskGrowthWeight)
		fmt.Fprintf(w, "risk_window_years: %d\n", cfg.RiskWindowYears)
		fmt.Fprintf(w, "top_n: %d\n", cfg.TopN)
		fmt.Fprintf(w, "small_population_threshold: %d\n", cfg.SmallPopulationThreshold)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_path":
			cfg.DataPath = val
		case "output_dir":
			cfg.OutputDir = val
		case "http_addr":
			cfg.HTTPAddr = val
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch val {
			case "text", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "duplicate_key":
			k, err := validate.ParseKey(val)
			if err != nil {
				return err
			}
			cfg.DuplicateKey = string(k)
		case "shutdown_timeout_sec", "min_year", "max_year", "risk_window_years", "top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			setInt(key, i)
		case "small_population_threshold":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			cfg.SmallPopulationThreshold = i
		case "risk_rate_weight", "risk_growth_weight":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid weight for %s: %v (use a value in [0, 1])", key, val)
			}
			if key == "risk_rate_weight" {
				cfg.RiskRateWeight = f
			} else {
				cfg.RiskGrowthWeight = f
			}
			if err := riskStrategy().Validate(); err != nil {
				warnf("%v; set the other weight too", err)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setInt(key string, i int) {
	switch key {
	case "shutdown_timeout_sec":
		cfg.ShutdownTimeoutSec = i
	case "min_year":
		cfg.MinYear = i
	case "max_year":
		cfg.MaxYear = i
	case "risk_window_years":
		cfg.RiskWindowYears = i
	case "top_n":
		cfg.TopN = i
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
