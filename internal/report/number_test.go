package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 42.5, 42.5},
		{"int", 7, 7},
		{"int8", int8(-4), -4},
		{"int16", int16(300), 300},
		{"uint", uint(9), 9},
		{"uint8", uint8(200), 200},
		{"uint64", uint64(1 << 40), 1 << 40},
		{"comma decimal", "12,5", 12.5},
		{"percent suffix", "45%", 45},
		{"currency prefix", "R$ 30", 30},
		{"negative", "-3", -3},
		{"garbage", "abc", 0},
		{"empty", "", 0},
		{"extra separators", "1.234.5", 1.234},
		{"json number", json.Number("7.25"), 7.25},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
		{"map", map[string]any{"a": 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumber(tt.in), 1e-9)
		})
	}
}

func TestRescaleTo100(t *testing.T) {
	assert.Equal(t, []float64{50, 50}, rescaleTo100([]float64{10, 10}))
	assert.Equal(t, []float64{60, 40}, rescaleTo100([]float64{60, 40}))
	assert.Equal(t, []float64{0, 0}, rescaleTo100([]float64{0, 0}))
	assert.Equal(t, []float64{33.33, 33.33, 33.33}, rescaleTo100([]float64{1, 1, 1}))

	in := []float64{1, 3}
	out := rescaleTo100(in)
	assert.Equal(t, []float64{25, 75}, out)
	assert.Equal(t, []float64{1, 3}, in, "input must not be modified")
}
