// -----------------------------------------------------------------------
// Rule catalog models - categorized organizational coding-standard rules
// -----------------------------------------------------------------------

package models

// RuleCategory is one of the nine fixed taxonomy buckets a rule belongs to.
// The category set is closed and known at compile time.
type RuleCategory string

const (
	CategoryCodingStandards   RuleCategory = "coding_standards"
	CategorySecurity          RuleCategory = "security_requirements"
	CategoryPerformance       RuleCategory = "performance_guidelines"
	CategoryDocumentation     RuleCategory = "documentation_requirements"
	CategoryTesting           RuleCategory = "testing_requirements"
	CategoryErrorHandling     RuleCategory = "error_handling"
	CategoryLogging           RuleCategory = "logging_requirements"
	CategoryDataHandling      RuleCategory = "data_handling"
	CategoryGeneralGuidelines RuleCategory = "general_guidelines"
)

// AllRuleCategories lists every category in stable order
var AllRuleCategories = []RuleCategory{
	CategoryCodingStandards,
	CategorySecurity,
	CategoryPerformance,
	CategoryDocumentation,
	CategoryTesting,
	CategoryErrorHandling,
	CategoryLogging,
	CategoryDataHandling,
	CategoryGeneralGuidelines,
}

// ValidCategory reports whether name is one of the nine fixed categories
func ValidCategory(name string) bool {
	for _, category := range AllRuleCategories {
		if RuleCategory(name) == category {
			return true
		}
	}
	return false
}

// RuleCatalog maps each rule category to its ordered rule statements.
// Built once from blueprint sources; passed by value into the validation
// engine so no global catalog state exists.
type RuleCatalog struct {
	Rules map[RuleCategory][]string `json:"rules"`
}

// NewRuleCatalog returns an empty catalog with an initialized rules map
func NewRuleCatalog() *RuleCatalog {
	return &RuleCatalog{Rules: make(map[RuleCategory][]string)}
}

// Add appends a rule statement to a category
func (c *RuleCatalog) Add(category RuleCategory, rule string) {
	c.Rules[category] = append(c.Rules[category], rule)
}

// HasCategory reports whether a category is present with at least one rule.
// Checks gated on an absent category produce no findings: rules not
// mentioned are not enforced.
func (c *RuleCatalog) HasCategory(category RuleCategory) bool {
	return len(c.Rules[category]) > 0
}

// TotalRules returns the number of rule statements across all categories
func (c *RuleCatalog) TotalRules() int {
	total := 0
	for _, rules := range c.Rules {
		total += len(rules)
	}
	return total
}
