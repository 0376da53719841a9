package report

import (
	"strconv"
	"strings"
)

// Edit is a client-submitted change to a stored report, reduced to the
// shapes the reports table accepts. Nil pointers and nil TargetAudience or
// CustomerSegments mean the field was not submitted. The remaining lists are
// always present.
type Edit struct {
	Title            *string        `json:"title,omitempty"`
	MarketSize       *string        `json:"marketSize,omitempty"`
	GrowthRate       *string        `json:"growthRate,omitempty"`
	CompetitionLevel *string        `json:"competitionLevel,omitempty"`
	EntryBarriers    *string        `json:"entryBarriers,omitempty"`
	TargetAudience   []string       `json:"targetAudience,omitempty"`
	CustomerSegments []SegmentShare `json:"customerSegments,omitempty"`

	KeyPlayers      []PlayerShare `json:"keyPlayers"`
	Opportunities   []string      `json:"opportunities"`
	Challenges      []string      `json:"challenges"`
	Recommendations []string      `json:"recommendations"`
	Strengths       []string      `json:"strengths"`
	Weaknesses      []string      `json:"weaknesses"`
}

type SegmentShare struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// PlayerShare keeps the share as the client typed it; it is parsed when the
// edit is applied.
type PlayerShare struct {
	Name        string `json:"name"`
	MarketShare string `json:"marketShare"`
}

var playerShareKeys = []string{"marketShare", "market_share", "share", "percentage"}

// SanitizeEdit reduces a raw edit payload to an Edit. Unlike Normalize it
// does not clamp lengths or rescale shares.
func SanitizeEdit(raw Raw) Edit {
	var e Edit

	if s, ok := raw["title"].(string); ok {
		t := strings.TrimSpace(s)
		e.Title = &t
	}
	e.MarketSize = rawString(raw, "marketSize")
	e.GrowthRate = rawString(raw, "growthRate")
	e.CompetitionLevel = rawString(raw, "competitionLevel")
	e.EntryBarriers = rawString(raw, "entryBarriers")

	if _, ok := raw["targetAudience"]; ok {
		e.TargetAudience = NormalizeAudience(raw["targetAudience"])
	}
	if items := raw.list("customerSegments"); items != nil {
		e.CustomerSegments = make([]SegmentShare, 0, len(items))
		for _, item := range items {
			seg, ok := asRaw(item)
			if !ok {
				continue
			}
			name, _ := seg.text("name")
			if name == "" {
				continue
			}
			e.CustomerSegments = append(e.CustomerSegments, SegmentShare{
				Name:       name,
				Percentage: seg.number(segmentKeys...),
			})
		}
	}

	e.KeyPlayers = []PlayerShare{}
	for _, item := range raw.list("keyPlayers") {
		p, ok := asRaw(item)
		if !ok {
			continue
		}
		name, _ := p.text("name")
		if name == "" {
			continue
		}
		e.KeyPlayers = append(e.KeyPlayers, PlayerShare{Name: name, MarketShare: shareText(p)})
	}

	e.Opportunities = stringItems(raw["opportunities"])
	e.Challenges = stringItems(raw["challenges"])
	e.Recommendations = stringItems(raw["recommendations"])
	e.Strengths = stringItems(raw["strengths"])
	e.Weaknesses = stringItems(raw["weaknesses"])
	return e
}

// ApplyEdit merges e into r. Submitted scalars and the audience or segments
// replace the stored values; the always-present lists replace theirs.
// Visibility scores of players that keep their name survive the edit.
func (r *Report) ApplyEdit(e Edit) {
	if e.Title != nil && *e.Title != "" {
		r.Title = *e.Title
	}
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&r.MarketSize, e.MarketSize},
		{&r.GrowthRate, e.GrowthRate},
		{&r.CompetitionLevel, e.CompetitionLevel},
		{&r.EntryBarriers, e.EntryBarriers},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}

	if e.TargetAudience != nil {
		r.TargetAudience = e.TargetAudience
	}
	if e.CustomerSegments != nil {
		r.CustomerSegments = make([]CustomerSegment, len(e.CustomerSegments))
		for i, s := range e.CustomerSegments {
			r.CustomerSegments[i] = CustomerSegment{Name: s.Name, Value: s.Percentage}
		}
	}

	visibility := make(map[string]*float64, len(r.KeyPlayers))
	for _, p := range r.KeyPlayers {
		if p.VisibilityIndex != nil {
			visibility[strings.ToLower(p.Name)] = p.VisibilityIndex
		}
	}
	r.KeyPlayers = make([]KeyPlayer, len(e.KeyPlayers))
	for i, p := range e.KeyPlayers {
		r.KeyPlayers[i] = KeyPlayer{
			Name:            p.Name,
			MarketShare:     ParseNumber(p.MarketShare),
			VisibilityIndex: visibility[strings.ToLower(p.Name)],
		}
	}

	r.Opportunities = e.Opportunities
	r.Challenges = e.Challenges
	r.Recommendations = e.Recommendations
	r.Strengths = e.Strengths
	r.Weaknesses = e.Weaknesses
	r.ensureLists()
}

func rawString(raw Raw, key string) *string {
	if s, ok := raw[key].(string); ok {
		return &s
	}
	return nil
}

func shareText(p Raw) string {
	v, ok := p.first(playerShareKeys...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		if n, ok := numericValue(s); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return ""
}

// stringItems keeps the string entries of a list and returns an empty list
// for anything else.
func stringItems(v any) []string {
	items := cleanList(v)
	if items == nil {
		return []string{}
	}
	return items
}
