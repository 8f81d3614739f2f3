// -----------------------------------------------------------------------
// Rule classification - keyword mapping from rule statement to category
// -----------------------------------------------------------------------

package catalog

import (
	"strings"

	"github.com/ternarybob/conform/internal/models"
)

// categoryKeywords maps substrings to rule categories. Matching is ordered:
// earlier entries win, and a statement matching nothing lands in
// general_guidelines so classification is total.
var categoryKeywords = []struct {
	category models.RuleCategory
	keywords []string
}{
	{models.CategorySecurity, []string{
		"security", "secure", "password", "credential", "secret", "encrypt",
		"authentication", "authorization", "access control", "sensitive",
	}},
	{models.CategoryErrorHandling, []string{
		"error handling", "exception", "try/except", "try-except", "error",
		"failure", "retry", "fault",
	}},
	{models.CategoryLogging, []string{
		"logging", "log level", "logger", "audit trail", "log",
	}},
	{models.CategoryTesting, []string{
		"test", "unit test", "integration test", "coverage", "assertion",
	}},
	{models.CategoryDocumentation, []string{
		"document", "docstring", "comment", "readme", "description",
	}},
	{models.CategoryPerformance, []string{
		"performance", "optimiz", "partition", "cache", "caching", "broadcast",
		"parallel", "efficien", "latency", "throughput",
	}},
	{models.CategoryDataHandling, []string{
		"data quality", "null", "missing value", "validation", "validate",
		"schema", "data type", "dataset", "dataframe", "data handling",
		"deduplicat", "data",
	}},
	{models.CategoryCodingStandards, []string{
		"naming", "convention", "style", "pep 8", "pep8", "format", "lint",
		"indent", "variable name", "function name", "code review",
	}},
}

// Classify maps one rule statement to its category by ordered keyword
// matching over the lowercased text
func Classify(rule string) models.RuleCategory {
	lowered := strings.ToLower(rule)

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.category
			}
		}
	}
	return models.CategoryGeneralGuidelines
}
