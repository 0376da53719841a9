package report

// segmentKeys lists where a segment share may appear, in precedence order.
var segmentKeys = []string{"percentage", "value"}

// NormalizeSegments reshapes raw customer segments, rescaling shares to 100.
// Without segments it splits 100 evenly (integer division) across the
// audience entries, so the total may fall a few points short of 100.
func NormalizeSegments(v any, audience []string) []CustomerSegment {
	items, ok := v.([]any)
	if !ok {
		if typed, isTyped := v.([]CustomerSegment); isTyped {
			items = make([]any, len(typed))
			for i, s := range typed {
				items[i] = s
			}
		}
	}

	segments := make([]CustomerSegment, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case CustomerSegment:
			segments = append(segments, CustomerSegment{Name: nameOrPlaceholder(s.Name), Value: finite(s.Value)})
		case string:
			segments = append(segments, CustomerSegment{Name: nameOrPlaceholder(s)})
		default:
			raw, ok := asRaw(item)
			if !ok {
				continue
			}
			name, _ := raw.text("name")
			segments = append(segments, CustomerSegment{
				Name:  nameOrPlaceholder(name),
				Value: raw.number(segmentKeys...),
			})
		}
	}

	if len(segments) == 0 {
		return evenSegments(audience)
	}

	values := make([]float64, len(segments))
	for i, s := range segments {
		values[i] = s.Value
	}
	for i, val := range rescaleTo100(values) {
		segments[i].Value = val
	}
	return segments
}

func evenSegments(audience []string) []CustomerSegment {
	audience = truncate(audience, MaxAudience)
	if len(audience) == 0 {
		return []CustomerSegment{}
	}
	share := float64(100 / len(audience))
	out := make([]CustomerSegment, len(audience))
	for i, name := range audience {
		out[i] = CustomerSegment{Name: name, Value: share}
	}
	return out
}
