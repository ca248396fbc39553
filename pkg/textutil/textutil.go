// ABOUTME: Shared text normalization helpers
// ABOUTME: Whitespace collapsing and list cleanup used by extraction and normalization

package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace collapses runs of whitespace into single spaces and
// trims the result. An all-whitespace input collapses to the empty string.
func CollapseWhitespace(value string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(value, " "))
}

// CleanLines whitespace-normalizes every item, dropping entries that
// collapse to empty.
func CleanLines(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if normalized := CollapseWhitespace(item); normalized != "" {
			cleaned = append(cleaned, normalized)
		}
	}
	return cleaned
}
