// -----------------------------------------------------------------------
// Application - wires the pipeline services and drives one analysis run
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/common"
	"github.com/ternarybob/conform/internal/interfaces"
	"github.com/ternarybob/conform/internal/models"
	"github.com/ternarybob/conform/internal/services/aggregator"
	"github.com/ternarybob/conform/internal/services/catalog"
	"github.com/ternarybob/conform/internal/services/extractor"
	"github.com/ternarybob/conform/internal/services/report"
	"github.com/ternarybob/conform/internal/services/validation"
)

// App holds the configured pipeline services
type App struct {
	config     *common.Config
	logger     arbor.ILogger
	catalog    interfaces.CatalogBuilder
	aggregator interfaces.CodebaseAggregator
	validator  interfaces.Validator
	reporter   interfaces.ReportWriter
}

// New validates the configuration and wires the services
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	extractorService := extractor.NewService(logger)

	return &App{
		config: config,
		logger: logger,
		catalog: catalog.NewService(
			config.Rules.Dir,
			config.Rules.CatalogFile,
			logger,
		),
		aggregator: aggregator.NewService(
			extractorService,
			config.Analysis.Extensions,
			config.Analysis.ExcludeDirs,
			config.Analysis.Workers,
			logger,
		),
		validator: validation.NewEngine(logger),
		reporter: report.NewService(
			config.Report.OutputPath,
			config.Report.Format,
			config.Report.Pretty,
			logger,
		),
	}, nil
}

// Run executes one analysis: build the rule catalog, aggregate the
// codebase, validate, and persist the report. The report is returned so
// callers can inspect the verdict.
func (a *App) Run(ctx context.Context) (*models.ComplianceReport, error) {
	runID := uuid.New().String()

	a.logger.Info().
		Str("run_id", runID).
		Str("codebase", a.config.Analysis.Path).
		Str("rules", a.config.Rules.Dir).
		Msg("Starting compliance analysis")

	ruleCatalog, err := a.catalog.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("rule catalog construction failed: %w", err)
	}

	analysis, err := a.aggregator.Aggregate(ctx, a.config.Analysis.Path)
	if err != nil {
		return nil, fmt.Errorf("codebase aggregation failed: %w", err)
	}

	result, err := a.validator.Validate(analysis, ruleCatalog)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	complianceReport := models.NewComplianceReport(runID, analysis, result)

	if _, err := a.reporter.Write(complianceReport); err != nil {
		return nil, fmt.Errorf("report write failed: %w", err)
	}

	return complianceReport, nil
}
