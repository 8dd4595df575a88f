package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector matches page chrome that never carries document content
const noiseSelector = "nav, footer, header, script, style, noscript, form, iframe, svg, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// blockSelector matches elements that end a line of text
const blockSelector = "p, div, section, article, li, tr, h1, h2, h3, h4, h5, h6, dt, dd, blockquote, pre, table, ul, ol"

// ContentSelectors are tried in order to locate the main content of a page
func ContentSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		".job-details",
		".posting-content",
		"[data-testid='job-description']",
		".resume",
		"main",
		"article",
		".content",
		"#content",
	}
}

// HTMLToText extracts readable text from an HTML page. Block elements become line
// breaks and list items become "- " bullets so section headings survive conversion.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	var main *goquery.Selection
	for _, selector := range ContentSelectors() {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	main.Find("br").ReplaceWithHtml("\n")
	main.Find("li").PrependHtml("- ")
	main.Find(blockSelector).AppendHtml("\n")

	return CleanText(main.Text()), nil
}

// looksLikeHTML sniffs content for markup when the file extension is not conclusive
func looksLikeHTML(content string) bool {
	head := strings.ToLower(content)
	if len(head) > 512 {
		head = head[:512]
	}
	head = strings.TrimSpace(head)
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") || strings.Contains(head, "<div")
}
