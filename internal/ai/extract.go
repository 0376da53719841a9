package ai

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

// ErrInvalidAIResponse means the model answered with something that is not a
// JSON object.
var ErrInvalidAIResponse = errors.New("invalid AI response")

// parseReportJSON pulls the first JSON object out of a model answer,
// tolerating markdown fences and chatter around it.
func parseReportJSON(resp string) (report.Raw, error) {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	if jsonStr, ok := extractFirstJSONObject(cleaned); ok {
		cleaned = jsonStr
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, errors.Join(ErrInvalidAIResponse, err)
	}
	if raw == nil {
		return nil, ErrInvalidAIResponse
	}
	return report.Raw(raw), nil
}

// extractFirstJSONObject finds the first outermost balanced {...}
func extractFirstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '{' {
				depth++
			} else if char == '}' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
