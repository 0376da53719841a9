package report

import (
	"slices"
	"strconv"
)

// Defaults applied by Normalize.
const (
	DefaultTitle = "Análise de Mercado"
	NotInformed  = "Não informado"
)

// Field bounds applied by Normalize.
const (
	MaxListItems      = 6
	MaxListItemLength = 120

	marketSizeLength       = 160
	growthRateLength       = 80
	competitionLevelLength = 40
	entryBarriersLength    = 160
)

// Normalize turns one loosely shaped report object into a complete Report.
// It never fails: missing or mistyped fields fall back to defaults, and keys
// it does not know are kept in Extra.
func Normalize(raw Raw) Report {
	var r Report

	r.Title, _ = raw.text("title", "topic", "niche")
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	r.MarketSize = scalar(raw, "marketSize", marketSizeLength)
	r.GrowthRate = scalar(raw, "growthRate", growthRateLength)
	r.CompetitionLevel = scalar(raw, "competitionLevel", competitionLevelLength)
	r.EntryBarriers = scalar(raw, "entryBarriers", entryBarriersLength)

	// Segments fall back to the audience, so it goes first.
	r.TargetAudience = NormalizeAudience(raw["targetAudience"])
	r.KeyPlayers = NormalizeKeyPlayers(raw.list("keyPlayers"))
	r.CustomerSegments = NormalizeSegments(raw.list("customerSegments"), r.TargetAudience)

	r.Opportunities = boundedList(raw["opportunities"])
	r.Challenges = boundedList(raw["challenges"])
	r.Recommendations = boundedList(raw["recommendations"])
	r.Strengths = boundedList(raw["strengths"])
	r.Weaknesses = boundedList(raw["weaknesses"])

	for k, v := range raw {
		if slices.Contains(knownKeys, k) {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}

	r.ensureLists()
	return r
}

func scalar(raw Raw, key string, max int) string {
	if s, ok := raw.text(key); ok {
		return Clamp(s, max)
	}
	if n, ok := numericValue(raw[key]); ok {
		return Clamp(strconv.FormatFloat(n, 'f', -1, 64), max)
	}
	return NotInformed
}

func boundedList(v any) []string {
	items := truncate(cleanList(v), MaxListItems)
	for i, s := range items {
		items[i] = Clamp(s, MaxListItemLength)
	}
	return items
}
