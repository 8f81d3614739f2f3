// -----------------------------------------------------------------------
// Report models - the persisted compliance document for one run
// -----------------------------------------------------------------------

package models

import "time"

// ReportTallies groups finding counts by type, independently for each
// finding list
type ReportTallies struct {
	Violations map[FindingType]int `json:"violations"`
	Warnings   map[FindingType]int `json:"warnings"`
	Compliant  map[FindingType]int `json:"compliant"`
}

// ComplianceReport is the structured document persisted at the end of a run
type ComplianceReport struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Root        string        `json:"root"`
	Metrics     Metrics       `json:"metrics"`
	Compliant   []Finding     `json:"compliant"`
	Violations  []Finding     `json:"violations"`
	Warnings    []Finding     `json:"warnings"`
	Suggestions []Finding     `json:"suggestions"`
	Tallies     ReportTallies `json:"tallies"`
	Summary     Summary       `json:"summary"`
}

// NewComplianceReport assembles the report document from a validation
// result and the analysis it was derived from
func NewComplianceReport(runID string, analysis *CodebaseAnalysis, result *ValidationResult) *ComplianceReport {
	return &ComplianceReport{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Root:        analysis.Root,
		Metrics:     result.Metrics,
		Compliant:   result.Compliant,
		Violations:  result.Violations,
		Warnings:    result.Warnings,
		Suggestions: result.Suggestions,
		Tallies: ReportTallies{
			Violations: TallyByType(result.Violations),
			Warnings:   TallyByType(result.Warnings),
			Compliant:  TallyByType(result.Compliant),
		},
		Summary: analysis.Summary,
	}
}
