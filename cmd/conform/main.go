// -----------------------------------------------------------------------
// Conform - codebase compliance analyzer entrypoint
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/app"
	"github.com/ternarybob/conform/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	codebasePath = flag.String("path", "", "Codebase root to analyze (overrides config)")
	rulesDir     = flag.String("rules", "", "Blueprint directory for rule extraction (overrides config)")
	outputPath   = flag.String("out", "", "Report output path (overrides config)")
	outputFormat = flag.String("format", "", "Report format: json, pdf or both (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Conform version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> files -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner

	if len(configFiles) == 0 {
		if _, err := os.Stat("conform.toml"); err == nil {
			configFiles = append(configFiles, "conform.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, *codebasePath, *rulesDir, *outputPath, *outputFormat)

	logger := common.InitLogger(config)

	common.PrintBanner(common.LoadVersionFromFile())

	logger.Info().
		Strs("config_files", configFiles).
		Str("codebase", config.Analysis.Path).
		Str("rules_dir", config.Rules.Dir).
		Str("report", config.Report.OutputPath).
		Msg("Configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}

	// Batch run: a signal cancels the in-flight analysis
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := application.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Compliance analysis failed")
		os.Exit(1)
	}

	logger.Info().
		Int("violations", len(report.Violations)).
		Int("warnings", len(report.Warnings)).
		Int("compliant", len(report.Compliant)).
		Float64("overall_compliance", report.Metrics.OverallCompliance).
		Msg("Compliance analysis complete")

	if config.Report.FailOnViolations && len(report.Violations) > 0 {
		os.Exit(1)
	}
}
