package report

import "strings"

// Raw is an untrusted JSON object, as produced by decoding into map[string]any.
// Accessors never fail: a missing or mistyped key reads as absent.
type Raw map[string]any

func asRaw(v any) (Raw, bool) {
	switch m := v.(type) {
	case Raw:
		return m, true
	case map[string]any:
		return Raw(m), true
	}
	return nil, false
}

// text returns the first key holding a non-blank string, trimmed.
func (r Raw) text(keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := r[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// first returns the value of the first key present with a non-nil value.
func (r Raw) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// number resolves keys in precedence order and parses the first present one.
func (r Raw) number(keys ...string) float64 {
	v, _ := r.first(keys...)
	return ParseNumber(v)
}

// numberPreferNumeric looks for a key already holding a JSON number before
// falling back to parsing the first present key.
func (r Raw) numberPreferNumeric(keys ...string) float64 {
	for _, k := range keys {
		if n, ok := numericValue(r[k]); ok {
			return n
		}
	}
	return r.number(keys...)
}

func (r Raw) list(key string) []any {
	switch l := r[key].(type) {
	case []any:
		return l
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	}
	return nil
}
