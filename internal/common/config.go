package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Analysis    AnalysisConfig `toml:"analysis"`
	Rules       RulesConfig    `toml:"rules"`
	Report      ReportConfig   `toml:"report"`
	Logging     LoggingConfig  `toml:"logging"`
}

// AnalysisConfig controls codebase traversal and feature extraction
type AnalysisConfig struct {
	Path        string   `toml:"path" validate:"required"` // Codebase root (directory or single file)
	Extensions  []string `toml:"extensions"`               // Source extensions to analyze (default: .py)
	ExcludeDirs []string `toml:"exclude_dirs"`             // Directory names skipped at any depth (exact, case-sensitive)
	Workers     int      `toml:"workers" validate:"gte=0"` // Extraction concurrency (0 = NumCPU)
}

// RulesConfig controls rule catalog construction
type RulesConfig struct {
	Dir         string `toml:"dir"`          // Directory of blueprint documents (.md/.txt/.html/.pdf/.docx)
	CatalogFile string `toml:"catalog_file"` // Optional direct YAML catalog (category -> rules), merged after Dir
}

// ReportConfig controls report output
type ReportConfig struct {
	OutputPath       string `toml:"output_path"`                           // Report file path (format-specific extension appended for "both")
	Format           string `toml:"format" validate:"oneof=json pdf both"` // "json", "pdf", or "both"
	Pretty           bool   `toml:"pretty"`                                // Indent JSON output
	FailOnViolations bool   `toml:"fail_on_violations"`                    // Non-zero exit code when violations are found
}

// LoggingConfig controls the arbor logger
type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for log lines
}

// DefaultExcludeDirs are the directory names skipped during traversal when
// the config does not supply its own set: version control, caches, virtual
// environments and editor metadata.
var DefaultExcludeDirs = []string{
	".git", ".hg", ".svn",
	"__pycache__", ".ipynb_checkpoints",
	".venv", "venv", "env", "node_modules",
	".idea", ".vscode",
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Analysis: AnalysisConfig{
			Path:        ".",
			Extensions:  []string{".py"},
			ExcludeDirs: append([]string{}, DefaultExcludeDirs...),
			Workers:     0, // 0 = runtime.NumCPU at the fan-out point
		},
		Rules: RulesConfig{
			Dir: "./blueprints",
		},
		Report: ReportConfig{
			OutputPath:       "./compliance_report.json",
			Format:           "json",
			Pretty:           true,
			FailOnViolations: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies CONFORM_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CONFORM_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if path := os.Getenv("CONFORM_ANALYSIS_PATH"); path != "" {
		config.Analysis.Path = path
	}
	if workers := os.Getenv("CONFORM_ANALYSIS_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			config.Analysis.Workers = n
		}
	}
	if dir := os.Getenv("CONFORM_RULES_DIR"); dir != "" {
		config.Rules.Dir = dir
	}
	if path := os.Getenv("CONFORM_REPORT_OUTPUT"); path != "" {
		config.Report.OutputPath = path
	}
	if format := os.Getenv("CONFORM_REPORT_FORMAT"); format != "" {
		config.Report.Format = strings.ToLower(format)
	}
	if level := os.Getenv("CONFORM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority).
// Empty values leave the config untouched.
func ApplyFlagOverrides(config *Config, path, rulesDir, output, format string) {
	if path != "" {
		config.Analysis.Path = path
	}
	if rulesDir != "" {
		config.Rules.Dir = rulesDir
	}
	if output != "" {
		config.Report.OutputPath = output
	}
	if format != "" {
		config.Report.Format = strings.ToLower(format)
	}
}

// Validate checks the resolved configuration against its struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
