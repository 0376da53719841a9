package places

import (
	"math"
	"sort"
	"unicode/utf8"
)

const (
	maxChartEntries = 10
	maxChartName    = 20
)

// Evidence is a place ranked against the most reviewed place of its batch.
type Evidence struct {
	Place
	VisibilityIndex int `json:"visibilityIndex"`
}

// ChartPoint is one bar of the visibility chart.
type ChartPoint struct {
	Name            string  `json:"name"`
	VisibilityIndex int     `json:"visibilityIndex"`
	ReviewCount     int     `json:"reviewCount"`
	Rating          float64 `json:"rating"`
}

// BuildCompetitorEvidence scores each place 0-100 by review count relative
// to the batch maximum. The most reviewed place scores 100, or every place
// scores 0 when none has reviews.
func BuildCompetitorEvidence(places []Place) []Evidence {
	maxReviews := 1
	for _, p := range places {
		maxReviews = max(maxReviews, p.ReviewCount)
	}
	out := make([]Evidence, len(places))
	for i, p := range places {
		out[i] = Evidence{
			Place:           p,
			VisibilityIndex: int(math.Round(float64(p.ReviewCount) / float64(maxReviews) * 100)),
		}
	}
	return out
}

// BuildVisibilityChartData keeps the ten most visible places with a positive
// score, best first, with display names shortened to fit the chart.
func BuildVisibilityChartData(evidence []Evidence) []ChartPoint {
	visible := make([]Evidence, 0, len(evidence))
	for _, e := range evidence {
		if e.VisibilityIndex > 0 {
			visible = append(visible, e)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].VisibilityIndex > visible[j].VisibilityIndex
	})
	if len(visible) > maxChartEntries {
		visible = visible[:maxChartEntries]
	}

	out := make([]ChartPoint, len(visible))
	for i, e := range visible {
		out[i] = ChartPoint{
			Name:            truncateName(e.Name, maxChartName),
			VisibilityIndex: e.VisibilityIndex,
			ReviewCount:     e.ReviewCount,
			Rating:          e.Rating,
		}
	}
	return out
}

func truncateName(name string, maxLen int) string {
	if utf8.RuneCountInString(name) <= maxLen {
		return name
	}
	return string([]rune(name)[:maxLen-3]) + "..."
}
