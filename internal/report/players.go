package report

import (
	"math"
	"strings"
)

// Placeholder names records that arrive without one.
const Placeholder = "—"

// shareKeys lists where a market share may appear, in precedence order.
var shareKeys = []string{"market_share", "marketShare", "share", "percentage"}

// NormalizeKeyPlayers reshapes raw competitor records and rescales their
// shares to add up to 100. A finite visibilityIndex is kept as given.
func NormalizeKeyPlayers(v any) []KeyPlayer {
	items, ok := v.([]any)
	if !ok {
		if typed, isTyped := v.([]KeyPlayer); isTyped {
			items = make([]any, len(typed))
			for i, p := range typed {
				items[i] = p
			}
		}
	}

	players := make([]KeyPlayer, 0, len(items))
	for _, item := range items {
		if p, ok := toKeyPlayer(item); ok {
			players = append(players, p)
		}
	}

	shares := make([]float64, len(players))
	for i, p := range players {
		shares[i] = p.MarketShare
	}
	for i, s := range rescaleTo100(shares) {
		players[i].MarketShare = s
	}
	return players
}

func toKeyPlayer(item any) (KeyPlayer, bool) {
	switch p := item.(type) {
	case KeyPlayer:
		p.Name = nameOrPlaceholder(p.Name)
		p.MarketShare = finite(p.MarketShare)
		if p.VisibilityIndex != nil && !isFinite(*p.VisibilityIndex) {
			p.VisibilityIndex = nil
		}
		return p, true
	case string:
		return KeyPlayer{Name: nameOrPlaceholder(p)}, true
	}

	raw, ok := asRaw(item)
	if !ok {
		return KeyPlayer{}, false
	}
	name, _ := raw.text("name")
	player := KeyPlayer{
		Name:        nameOrPlaceholder(name),
		MarketShare: raw.numberPreferNumeric(shareKeys...),
	}
	if vi, ok := numericValue(raw["visibilityIndex"]); ok {
		player.VisibilityIndex = &vi
	}
	return player, true
}

func nameOrPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return Placeholder
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
