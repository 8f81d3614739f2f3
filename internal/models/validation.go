// -----------------------------------------------------------------------
// Validation models - classified findings and derived compliance metrics
// -----------------------------------------------------------------------

package models

// Severity of a finding
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// FindingType tags which check produced a finding
type FindingType string

const (
	FindingDataQuality    FindingType = "data_quality"
	FindingPerformance    FindingType = "performance"
	FindingErrorHandling  FindingType = "error_handling"
	FindingDocumentation  FindingType = "documentation"
	FindingDataOperations FindingType = "data_operations"
)

// Finding is one compliant/violation/warning/suggestion entry produced by
// a validation check
type Finding struct {
	Type     FindingType `json:"type"`
	Message  string      `json:"message"`
	Severity Severity    `json:"severity"`
	Details  interface{} `json:"details,omitempty"`
}

// Metrics holds the derived compliance ratios. All values are zero when the
// catalog carries no rules.
//
// OverallCompliance preserves the historical 1 - violations/totalRules
// arithmetic, which is not clamped and goes negative once violations
// outnumber rules. ComplianceScore is the clamped [0,1] variant.
type Metrics struct {
	OverallCompliance float64 `json:"overall_compliance"`
	ComplianceScore   float64 `json:"compliance_score"`
	RuleCoverage      float64 `json:"rule_coverage"`
	DataQualityScore  float64 `json:"data_quality_score"`
	PerformanceScore  float64 `json:"performance_score"`
}

// ValidationResult is the classified findings set for one run
type ValidationResult struct {
	Compliant   []Finding `json:"compliant"`
	Violations  []Finding `json:"violations"`
	Warnings    []Finding `json:"warnings"`
	Suggestions []Finding `json:"suggestions"`
	Metrics     Metrics   `json:"metrics"`
}

// NewValidationResult returns a result with initialized finding lists
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Compliant:   []Finding{},
		Violations:  []Finding{},
		Warnings:    []Finding{},
		Suggestions: []Finding{},
	}
}

// TallyByType groups findings by their type tag
func TallyByType(findings []Finding) map[FindingType]int {
	tally := make(map[FindingType]int)
	for _, finding := range findings {
		tally[finding.Type]++
	}
	return tally
}
