package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/antioquia-dashboard/internal/config"
	"github.com/KaramelBytes/antioquia-dashboard/internal/loader"
	"github.com/KaramelBytes/antioquia-dashboard/internal/observability"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDataPath  string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = slog.Default()
	ld     *loader.Loader
)

var rootCmd = &cobra.Command{
	Use:   "antioquia",
	Short: "Antioquia suicide statistics: load, validate, analyze and serve",
	Long: `antioquia reads the open-data CSV of suicide cases per municipality of Antioquia,
validates it, derives rates and risk levels, and presents summaries, rankings,
correlations and a risk index on the terminal, as exported files, or over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗ Error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.antioquia/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "path to the CSV dataset (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		warnf("failed to load config: %v", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// datasetLoader returns the memoized loader for the configured data path.
func datasetLoader() *loader.Loader {
	path := loader.DefaultPath
	if cfg != nil && cfg.DataPath != "" {
		path = cfg.DataPath
	}
	if ld == nil || ld.Path() != path {
		ld = loader.New(path)
	}
	return ld
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("⚠ Warning:"), fmt.Sprintf(format, args...))
}
