package report

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumericChars = regexp.MustCompile(`[^\d.,\-]`)
	numericPrefix   = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// ParseNumber turns a loosely typed numeric value into a finite float.
// Strings keep only digits and separators and use "," as the decimal point,
// so "R$ 12,5" yields 12.5. Anything unparsable yields 0.
func ParseNumber(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		return parseNumericString(n.String())
	case string:
		return parseNumericString(n)
	}
	f, _ := numericValue(v)
	return f
}

func parseNumericString(s string) float64 {
	clean := nonNumericChars.ReplaceAllString(s, "")
	clean = strings.ReplaceAll(clean, ",", ".")

	// Longest valid prefix, so "1.234.5" reads as 1.234 instead of failing.
	m := numericPrefix.FindString(clean)
	if m == "" {
		return 0
	}
	val, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return finite(val)
}

// numericValue reports whether v already is a number.
func numericValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// rescaleTo100 scales values proportionally so they add up to 100, rounding
// each to 2 decimals. Totals that are zero, negative or already round to 100
// are returned untouched.
func rescaleTo100(values []float64) []float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	copy(out, values)
	if total <= 0 || math.Round(total) == 100 {
		return out
	}
	for i, v := range values {
		out[i] = round2(v / total * 100)
	}
	return out
}
