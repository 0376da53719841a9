package report

import (
	"strings"
	"unicode/utf8"
)

// DefaultClampLength is the bound Clamp uses when none is given.
const DefaultClampLength = 160

const ellipsis = "…"

// Clamp bounds s to max runes, appending an ellipsis when it had to cut.
// A non-positive max falls back to DefaultClampLength.
func Clamp(s string, max int) string {
	if s == "" {
		return s
	}
	if max <= 0 {
		max = DefaultClampLength
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + ellipsis
}

// Dedupe drops repeated entries, comparing case-insensitively on the trimmed
// value. The first occurrence wins and order is kept.
func Dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, v := range items {
		k := strings.ToLower(strings.TrimSpace(v))
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// cleanList keeps the non-empty trimmed strings of a raw list value.
func cleanList(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
