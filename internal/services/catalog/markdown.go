// -----------------------------------------------------------------------
// Markdown blueprint parsing - goldmark AST walk collecting rule statements
// -----------------------------------------------------------------------

package catalog

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// minRuleLength filters out fragments that cannot be rule statements
const minRuleLength = 10

// rulesFromMarkdown extracts rule statements from a markdown blueprint.
// List items and top-level paragraphs are treated as rule statements;
// headings only give documents structure and are not rules themselves.
func rulesFromMarkdown(source []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var rules []string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindListItem:
			if statement := statementText(n, source); statement != "" {
				rules = append(rules, statement)
			}
			return ast.WalkSkipChildren, nil

		case ast.KindParagraph:
			// Paragraphs inside list items are covered by the item itself
			if n.Parent() != nil && n.Parent().Kind() == ast.KindListItem {
				return ast.WalkContinue, nil
			}
			if statement := statementText(n, source); statement != "" {
				rules = append(rules, statement)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return rules
}

// statementText flattens a node's text content into one candidate rule
// statement, or "" when it is too short to be one
func statementText(n ast.Node, source []byte) string {
	statement := strings.Join(strings.Fields(string(n.Text(source))), " ")
	if len(statement) < minRuleLength {
		return ""
	}
	return statement
}
