package report

import (
	"regexp"
	"strings"
)

// MaxAudience caps how many target audience entries a report keeps.
const MaxAudience = 6

var audienceSeparator = regexp.MustCompile(`(?i)\s*[,;]\s*|\s+(?:e|and|y)\s+`)

// NormalizeAudience coerces a free-text or list audience into a short,
// deduplicated list. Free text is split on commas and on "e"/"and"/"y".
func NormalizeAudience(v any) []string {
	var candidates []string
	switch a := v.(type) {
	case string:
		for _, part := range audienceSeparator.Split(a, -1) {
			if part = strings.TrimSpace(part); part != "" {
				candidates = append(candidates, part)
			}
		}
	case []string, []any:
		candidates = cleanList(a)
	default:
		return []string{}
	}
	return truncate(Dedupe(candidates), MaxAudience)
}
