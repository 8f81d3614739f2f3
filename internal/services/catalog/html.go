// -----------------------------------------------------------------------
// HTML blueprint parsing - convert to markdown and reuse the markdown path,
// with a goquery fallback for documents the converter rejects
// -----------------------------------------------------------------------

package catalog

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// rulesFromHTML extracts rule statements from an HTML blueprint
func rulesFromHTML(source []byte) ([]string, error) {
	converter := htmltomarkdown.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(string(source))
	if err == nil && strings.TrimSpace(markdown) != "" {
		return rulesFromMarkdown([]byte(markdown)), nil
	}

	// Fallback: pull list items and paragraphs straight from the DOM
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(source)))
	if err != nil {
		return nil, err
	}

	var rules []string
	doc.Find("li, p").Each(func(_ int, selection *goquery.Selection) {
		statement := strings.Join(strings.Fields(selection.Text()), " ")
		if len(statement) >= minRuleLength {
			rules = append(rules, statement)
		}
	})
	return rules, nil
}
