package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareTotal(players []KeyPlayer) float64 {
	var total float64
	for _, p := range players {
		total += p.MarketShare
	}
	return total
}

func TestNormalizeKeyPlayers_Rescales(t *testing.T) {
	got := NormalizeKeyPlayers([]any{
		map[string]any{"name": "Padaria A", "market_share": 10.0},
		map[string]any{"name": "Padaria B", "market_share": "10"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, 50.0, got[0].MarketShare)
	assert.Equal(t, 50.0, got[1].MarketShare)
	assert.InDelta(t, 100, shareTotal(got), 0.1)
}

func TestNormalizeKeyPlayers_OrderIndependent(t *testing.T) {
	a := map[string]any{"name": "A", "share": "12,5%"}
	b := map[string]any{"name": "B", "marketShare": 30.0}
	c := map[string]any{"name": "C", "percentage": 7.5}

	forward := NormalizeKeyPlayers([]any{a, b, c})
	backward := NormalizeKeyPlayers([]any{c, b, a})

	byName := func(players []KeyPlayer) map[string]float64 {
		m := map[string]float64{}
		for _, p := range players {
			m[p.Name] = p.MarketShare
		}
		return m
	}
	assert.Equal(t, byName(forward), byName(backward))
	assert.InDelta(t, 100, shareTotal(forward), 0.1)
}

func TestNormalizeKeyPlayers_KeyPrecedence(t *testing.T) {
	got := NormalizeKeyPlayers([]any{
		map[string]any{"name": "A", "market_share": "60", "marketShare": 40.0},
		map[string]any{"name": "B", "market_share": "60"},
	})

	require.Len(t, got, 2)
	// The numeric field wins for A: 40 + 60 = 100 so nothing is rescaled.
	assert.Equal(t, 40.0, got[0].MarketShare)
	assert.Equal(t, 60.0, got[1].MarketShare)
}

func TestNormalizeKeyPlayers_Visibility(t *testing.T) {
	got := NormalizeKeyPlayers([]any{
		map[string]any{"name": "A", "market_share": 50.0, "visibilityIndex": 130.0},
		map[string]any{"name": "B", "market_share": 50.0},
		map[string]any{"name": "C", "market_share": 0.0, "visibilityIndex": "high"},
	})

	require.Len(t, got, 3)
	require.NotNil(t, got[0].VisibilityIndex)
	assert.Equal(t, 130.0, *got[0].VisibilityIndex)
	assert.Nil(t, got[1].VisibilityIndex)
	assert.Nil(t, got[2].VisibilityIndex)
}

func TestNormalizeKeyPlayers_Malformed(t *testing.T) {
	got := NormalizeKeyPlayers([]any{
		map[string]any{"market_share": 0.0},
		"Loja X",
		42,
		nil,
	})

	require.Len(t, got, 2)
	assert.Equal(t, Placeholder, got[0].Name)
	assert.Equal(t, "Loja X", got[1].Name)
	assert.Zero(t, shareTotal(got))

	assert.Empty(t, NormalizeKeyPlayers(nil))
	assert.NotNil(t, NormalizeKeyPlayers("not a list"))
}

func TestNormalizeSegments(t *testing.T) {
	t.Run("rescaled", func(t *testing.T) {
		got := NormalizeSegments([]any{
			map[string]any{"name": "Jovens", "percentage": "30%"},
			map[string]any{"name": "Adultos", "value": 30.0},
		}, nil)
		assert.Equal(t, []CustomerSegment{{"Jovens", 50}, {"Adultos", 50}}, got)
	})

	t.Run("percentage before value", func(t *testing.T) {
		got := NormalizeSegments([]any{
			map[string]any{"name": "A", "percentage": 70.0, "value": 10.0},
			map[string]any{"name": "B", "value": 30.0},
		}, nil)
		assert.Equal(t, []CustomerSegment{{"A", 70}, {"B", 30}}, got)
	})

	t.Run("typed segments", func(t *testing.T) {
		got := NormalizeSegments([]CustomerSegment{{"A", 30}, {"B", 30}}, []string{"x", "y", "z"})
		assert.Equal(t, []CustomerSegment{{"A", 50}, {"B", 50}}, got)
	})

	t.Run("audience fallback floors", func(t *testing.T) {
		got := NormalizeSegments(nil, []string{"A", "B", "C"})
		assert.Equal(t, []CustomerSegment{{"A", 33}, {"B", 33}, {"C", 33}}, got)

		var total float64
		for _, s := range got {
			total += s.Value
		}
		assert.Equal(t, 99.0, total)
	})

	t.Run("empty list falls back", func(t *testing.T) {
		got := NormalizeSegments([]any{}, []string{"solo"})
		assert.Equal(t, []CustomerSegment{{"solo", 100}}, got)
	})

	t.Run("nothing at all", func(t *testing.T) {
		got := NormalizeSegments(nil, nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
