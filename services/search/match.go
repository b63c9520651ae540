package search

import (
	"regexp"
	"strings"
)

// Relevance tiers. The ordinal ordering is the contract; the numeric scale is
// arbitrary. Filter-only matches take the baseline so every result set still
// has a total order.
const (
	scoreExact     = 3.0
	scorePrefix    = 2.0
	scoreSubstring = 1.0
	scoreBaseline  = 0.5
)

const (
	snippetMaxLength = 150
	snippetContext   = 100
	maxHighlights    = 10
)

// scoreMatch returns the best tier the keywords reach across the given
// fields, case-insensitively. The second return is false when no field
// matches at all.
func scoreMatch(keywords string, fields ...string) (float64, bool) {
	needle := strings.ToLower(keywords)
	best := 0.0
	for _, field := range fields {
		haystack := strings.ToLower(field)
		switch {
		case haystack == needle:
			return scoreExact, true
		case strings.HasPrefix(haystack, needle):
			if best < scorePrefix {
				best = scorePrefix
			}
		case strings.Contains(haystack, needle):
			if best < scoreSubstring {
				best = scoreSubstring
			}
		}
	}
	return best, best > 0
}

// snippet cuts a window of content around the first keyword occurrence,
// falling back to the head of the content when the keywords only matched the
// title.
func snippet(content, keywords string) string {
	if len(content) == 0 {
		return ""
	}

	index := strings.Index(strings.ToLower(content), strings.ToLower(keywords))
	if index == -1 {
		if len(content) > snippetMaxLength {
			return content[:snippetMaxLength] + "..."
		}
		return content
	}

	start := index - snippetContext/2
	if start < 0 {
		start = 0
	}
	end := index + len(keywords) + snippetContext
	if end > len(content) {
		end = len(content)
	}

	result := content[start:end]
	if start > 0 {
		result = "..." + result
	}
	if end < len(content) {
		result = result + "..."
	}

	return result
}

// highlights collects the distinct words of the text that the keyword terms
// match, each extended to its word end.
func highlights(text, keywords string) []string {
	if len(text) == 0 || len(keywords) == 0 {
		return nil
	}

	var found []string
	seen := map[string]bool{}
	for _, term := range strings.Fields(strings.ToLower(keywords)) {
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\w*`)
		if err != nil {
			continue
		}
		for _, match := range pattern.FindAllString(text, maxHighlights) {
			if !seen[match] {
				seen[match] = true
				found = append(found, match)
			}
			if len(found) >= maxHighlights {
				return found
			}
		}
	}
	return found
}
