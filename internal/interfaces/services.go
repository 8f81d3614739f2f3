// -----------------------------------------------------------------------
// Service interfaces - contracts between the pipeline stages
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/conform/internal/models"
)

// FeatureExtractor parses one source unit into a normalized feature record
type FeatureExtractor interface {
	// Extract is a pure function over the source text. Sources that are
	// empty after preprocessing or not valid syntax yield an empty record,
	// not an error.
	Extract(ctx context.Context, source []byte) (*models.FeatureRecord, error)
}

// CodebaseAggregator walks a codebase and merges per-file feature records
type CodebaseAggregator interface {
	Aggregate(ctx context.Context, root string) (*models.CodebaseAnalysis, error)
}

// CatalogBuilder constructs a rule catalog from blueprint sources
type CatalogBuilder interface {
	Build(ctx context.Context) (*models.RuleCatalog, error)
}

// Validator applies the per-category checks and renders a verdict
type Validator interface {
	Validate(analysis *models.CodebaseAnalysis, catalog *models.RuleCatalog) (*models.ValidationResult, error)
}

// ReportWriter persists a compliance report and returns the written paths
type ReportWriter interface {
	Write(report *models.ComplianceReport) ([]string, error)
}
