// -----------------------------------------------------------------------
// Validation Engine - apply per-category checks to an aggregated codebase
// analysis and render a classified verdict with derived metrics
// -----------------------------------------------------------------------

package validation

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conform/internal/interfaces"
	"github.com/ternarybob/conform/internal/models"
)

// ValidationInputError indicates a structurally invalid analysis input.
// The engine fails fast rather than silently producing an empty report.
type ValidationInputError struct {
	Reason string
}

func (e *ValidationInputError) Error() string {
	return fmt.Sprintf("invalid validation input: %s", e.Reason)
}

// Engine implements interfaces.Validator. It is state-free: both inputs
// are immutable snapshots and the engine never mutates them.
type Engine struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Validator = (*Engine)(nil)

// NewEngine creates a validation engine
func NewEngine(logger arbor.ILogger) *Engine {
	return &Engine{logger: logger}
}

// Validate runs the five checks in their documented order (data quality,
// performance, error handling, documentation, data operations). Each check
// is gated on its governing rule category being present in the catalog:
// rules not mentioned are not enforced.
func (e *Engine) Validate(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog) (*models.ValidationResult, error) {
	if analysis == nil || analysis.Files == nil {
		return nil, &ValidationInputError{Reason: "analysis is missing its files map"}
	}
	if catalog == nil {
		catalog = models.NewRuleCatalog()
	}

	result := models.NewValidationResult()
	paths := analysis.SortedPaths()

	e.checkDataQuality(analysis, catalog, paths, result)
	e.checkPerformance(analysis, catalog, paths, result)
	e.checkErrorHandling(analysis, catalog, paths, result)
	e.checkDocumentation(analysis, catalog, paths, result)
	e.checkDataOperations(analysis, catalog, paths, result)

	e.deriveSuggestions(result)
	e.deriveMetrics(analysis, catalog, result)

	e.logger.Info().
		Int("compliant", len(result.Compliant)).
		Int("violations", len(result.Violations)).
		Int("warnings", len(result.Warnings)).
		Float64("overall_compliance", result.Metrics.OverallCompliance).
		Msg("Validation complete")

	return result, nil
}

// checkDataQuality: files without quality checks are high-severity
// violations; files with them are compliant with the checks as details
func (e *Engine) checkDataQuality(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog, paths []string, result *models.ValidationResult) {
	if !catalog.HasCategory(models.CategoryDataHandling) {
		return
	}

	for _, path := range paths {
		record := analysis.Files[path]
		if len(record.DataQualityChecks) == 0 {
			result.Violations = append(result.Violations, models.Finding{
				Type:     models.FindingDataQuality,
				Message:  fmt.Sprintf("File %s has no data quality checks", path),
				Severity: models.SeverityHigh,
			})
		} else {
			result.Compliant = append(result.Compliant, models.Finding{
				Type:     models.FindingDataQuality,
				Message:  fmt.Sprintf("File %s performs data quality checks", path),
				Severity: models.SeverityLow,
				Details:  record.DataQualityChecks,
			})
		}
	}
}

// checkPerformance: files without performance hints warn; files with them
// are compliant with the performance profile as details
func (e *Engine) checkPerformance(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog, paths []string, result *models.ValidationResult) {
	if !catalog.HasCategory(models.CategoryPerformance) {
		return
	}

	for _, path := range paths {
		record := analysis.Files[path]
		if len(record.Performance.Hints) == 0 {
			result.Warnings = append(result.Warnings, models.Finding{
				Type:     models.FindingPerformance,
				Message:  fmt.Sprintf("File %s uses no performance optimizations", path),
				Severity: models.SeverityMedium,
			})
		} else {
			result.Compliant = append(result.Compliant, models.Finding{
				Type:     models.FindingPerformance,
				Message:  fmt.Sprintf("File %s applies performance optimizations", path),
				Severity: models.SeverityLow,
				Details:  record.Performance,
			})
		}
	}
}

// checkErrorHandling: files without a try/except construct are violations
func (e *Engine) checkErrorHandling(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog, paths []string, result *models.ValidationResult) {
	if !catalog.HasCategory(models.CategoryErrorHandling) {
		return
	}

	for _, path := range paths {
		if !analysis.Files[path].Patterns.HasErrorHandling {
			result.Violations = append(result.Violations, models.Finding{
				Type:     models.FindingErrorHandling,
				Message:  fmt.Sprintf("File %s has no error handling", path),
				Severity: models.SeverityHigh,
			})
		}
	}
}

// checkDocumentation: files without a leading doc string warn
func (e *Engine) checkDocumentation(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog, paths []string, result *models.ValidationResult) {
	if !catalog.HasCategory(models.CategoryDocumentation) {
		return
	}

	for _, path := range paths {
		if !analysis.Files[path].Patterns.HasDocumentation {
			result.Warnings = append(result.Warnings, models.Finding{
				Type:     models.FindingDocumentation,
				Message:  fmt.Sprintf("File %s has no documentation", path),
				Severity: models.SeverityMedium,
			})
		}
	}
}

// checkDataOperations: files with no recorded data operations warn; files
// with them are compliant with the operations map as details
func (e *Engine) checkDataOperations(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog, paths []string, result *models.ValidationResult) {
	if !catalog.HasCategory(models.CategoryDataHandling) {
		return
	}

	for _, path := range paths {
		record := analysis.Files[path]
		if record.TotalDataOperations() == 0 {
			result.Warnings = append(result.Warnings, models.Finding{
				Type:     models.FindingDataOperations,
				Message:  fmt.Sprintf("File %s performs no data operations", path),
				Severity: models.SeverityMedium,
			})
		} else {
			result.Compliant = append(result.Compliant, models.Finding{
				Type:     models.FindingDataOperations,
				Message:  fmt.Sprintf("File %s performs data operations", path),
				Severity: models.SeverityLow,
				Details:  record.DataOperations,
			})
		}
	}
}

// remediation text per finding type, in check order
var remediations = []struct {
	findingType models.FindingType
	message     string
}{
	{models.FindingDataQuality, "Add data quality checks (filter, dropna, fillna, not-null checks) to files that process data"},
	{models.FindingPerformance, "Consider partitioning, caching or broadcast joins in files that move significant data"},
	{models.FindingErrorHandling, "Wrap failure-prone operations in try/except blocks"},
	{models.FindingDocumentation, "Add a module docstring describing each file's purpose"},
	{models.FindingDataOperations, "Verify files flagged without data operations belong in the data pipeline"},
}

// deriveSuggestions emits one remediation entry per finding type that
// produced a violation or warning, in the documented check order
func (e *Engine) deriveSuggestions(result *models.ValidationResult) {
	flagged := make(map[models.FindingType]bool)
	for _, finding := range result.Violations {
		flagged[finding.Type] = true
	}
	for _, finding := range result.Warnings {
		flagged[finding.Type] = true
	}

	for _, remediation := range remediations {
		if flagged[remediation.findingType] {
			result.Suggestions = append(result.Suggestions, models.Finding{
				Type:     remediation.findingType,
				Message:  remediation.message,
				Severity: models.SeverityLow,
			})
		}
	}
}

// deriveMetrics computes the compliance ratios. With no rules in the
// catalog every metric stays zero.
//
// OverallCompliance intentionally preserves 1 - violations/totalRules
// without clamping; it goes negative when violations outnumber rules.
// ComplianceScore is the clamped variant.
func (e *Engine) deriveMetrics(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog, result *models.ValidationResult) {
	totalRules := catalog.TotalRules()
	if totalRules == 0 {
		return
	}

	violationCount := float64(len(result.Violations))
	warningCount := float64(len(result.Warnings))

	result.Metrics.RuleCoverage = (violationCount + warningCount) / float64(totalRules)
	result.Metrics.OverallCompliance = 1 - violationCount/float64(totalRules)

	result.Metrics.ComplianceScore = result.Metrics.OverallCompliance
	if result.Metrics.ComplianceScore < 0 {
		result.Metrics.ComplianceScore = 0
	} else if result.Metrics.ComplianceScore > 1 {
		result.Metrics.ComplianceScore = 1
	}

	// Counted from the files map directly so the engine never depends on a
	// precomputed summary
	totalFiles := len(analysis.Files)
	if totalFiles > 0 {
		dataQualityCompliant := 0
		performanceCompliant := 0
		for _, finding := range result.Compliant {
			switch finding.Type {
			case models.FindingDataQuality:
				dataQualityCompliant++
			case models.FindingPerformance:
				performanceCompliant++
			}
		}
		result.Metrics.DataQualityScore = float64(dataQualityCompliant) / float64(totalFiles)
		result.Metrics.PerformanceScore = float64(performanceCompliant) / float64(totalFiles)
	}
}
