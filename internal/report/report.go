package report

import (
	"encoding/json"
	"maps"
)

// Report is the normalized market analysis persisted for a user search.
// Extra carries any additional keys the producer sent; they are re-emitted
// when the report is encoded, with the typed fields taking precedence.
type Report struct {
	Title            string            `json:"title"`
	MarketSize       string            `json:"marketSize"`
	GrowthRate       string            `json:"growthRate"`
	CompetitionLevel string            `json:"competitionLevel"`
	EntryBarriers    string            `json:"entryBarriers"`
	TargetAudience   []string          `json:"targetAudience"`
	KeyPlayers       []KeyPlayer       `json:"keyPlayers"`
	CustomerSegments []CustomerSegment `json:"customerSegments"`
	Opportunities    []string          `json:"opportunities"`
	Challenges       []string          `json:"challenges"`
	Recommendations  []string          `json:"recommendations"`
	Strengths        []string          `json:"strengths"`
	Weaknesses       []string          `json:"weaknesses"`

	Extra map[string]any `json:"-"`
}

// KeyPlayer is a competitor with its market share. VisibilityIndex is nil
// when no upstream score exists, which is not the same as a score of zero.
type KeyPlayer struct {
	Name            string   `json:"name"`
	MarketShare     float64  `json:"market_share"`
	VisibilityIndex *float64 `json:"visibilityIndex,omitempty"`
}

// CustomerSegment is a named share of the target market.
type CustomerSegment struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// reportFields mirrors Report without its methods so encoding does not recurse.
type reportFields Report

var knownKeys = []string{
	"title", "marketSize", "growthRate", "competitionLevel", "entryBarriers",
	"targetAudience", "keyPlayers", "customerSegments",
	"opportunities", "challenges", "recommendations", "strengths", "weaknesses",
}

func (r Report) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(reportFields(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return typed, nil
	}

	merged := make(map[string]any, len(r.Extra)+len(knownKeys))
	maps.Copy(merged, r.Extra)
	var known map[string]json.RawMessage
	if err := json.Unmarshal(typed, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var typed reportFields
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownKeys {
		delete(all, k)
	}
	*r = Report(typed)
	if len(all) > 0 {
		r.Extra = all
	}
	return nil
}

// ensureLists replaces nil slices with empty ones; the storage schema
// requires array values for every list field.
func (r *Report) ensureLists() {
	if r.TargetAudience == nil {
		r.TargetAudience = []string{}
	}
	if r.KeyPlayers == nil {
		r.KeyPlayers = []KeyPlayer{}
	}
	if r.CustomerSegments == nil {
		r.CustomerSegments = []CustomerSegment{}
	}
	for _, l := range []*[]string{&r.Opportunities, &r.Challenges, &r.Recommendations, &r.Strengths, &r.Weaknesses} {
		if *l == nil {
			*l = []string{}
		}
	}
}
