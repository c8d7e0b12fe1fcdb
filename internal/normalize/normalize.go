package normalize

import (
	"regexp"
	"strings"
)

var (
	lineBreaks = strings.NewReplacer("\r", "", "\n", "")

	// One match per [quote ...]...[/quote] block, across lines.
	quoteBlock = regexp.MustCompile(`(?is)\[quote.*?\].*?\[/quote\]`)
)

// CleanContent turns raw post text into the plain-text form: line breaks
// removed, bracketed quote blocks stripped, surrounding space trimmed.
func CleanContent(content string) string {
	content = lineBreaks.Replace(content)
	content = quoteBlock.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// NormalizeURL drops the fragment and surrounding spaces.
func NormalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if idx := strings.Index(urlStr, "#"); idx > -1 {
		urlStr = urlStr[:idx]
	}
	return urlStr
}
