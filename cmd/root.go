package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/solardash/internal/config"
	"github.com/KaramelBytes/solardash/internal/logging"
)

var (
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "solardash",
	Short: "Solar farm dataset dashboard",
	Long: `solardash analyzes solar-irradiance CSV files: preview, structure, missing values,
descriptive statistics, correlation heatmap, GHI distribution and GHI time series.
Run it as a web dashboard (serve) or render reports offline (analyze, analyze-batch).`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.solardash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console | json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// CLI overrides apply to this run only and are never saved
	level, format := cfg.LogLevel, cfg.LogFormat
	if debug {
		level = "debug"
	}
	if rootCmd.PersistentFlags().Changed("log-format") && logFormat != "" {
		format = logFormat
	}
	l, err := logging.New(level, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: logging disabled: %v\n", err)
		l = zap.NewNop()
	}
	logger = l
}
