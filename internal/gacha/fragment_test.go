package gacha_test

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xtding233/gacha-rates/internal/gacha"
)

const sampleFragment = `{"weights": {"1": 40.0, "2": 30.0, "3": 20.0, "4": 10.0}}`

func TestExtractWeights_Sample(t *testing.T) {
	got := gacha.ExtractWeights(sampleFragment)
	assert.Equal(t, map[int]float64{1: 40, 2: 30, 3: 20, 4: 10}, got)

	tbl := gacha.ParseWeightTable(sampleFragment)
	assert.InDelta(t, 100.0, tbl.TotalWeight(), 1e-9)
	pct, ok := tbl.NormalizedPercent(1)
	require.True(t, ok)
	assert.InDelta(t, 40.0, pct, 1e-9)
}

func TestExtractWeights_SkipsBadPairs(t *testing.T) {
	got := gacha.ExtractWeights(`{"weights": {"1": 40.0, "x": "y"}}`)
	assert.Equal(t, map[int]float64{1: 40}, got)
}

func TestExtractWeights_Cases(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want map[int]float64
	}{
		{"no key", `{"rates": {"1": 2}}`, map[int]float64{}},
		{"no opening brace", `{"weights": 12}`, map[int]float64{}},
		{"no closing brace", `{"weights": {"1": 2`, map[int]float64{}},
		{"empty text", ``, map[int]float64{}},
		{"empty body", `{"weights": {}}`, map[int]float64{}},
		{"bare key", `{"weights": {1: 2.5}}`, map[int]float64{1: 2.5}},
		{"quoted value skipped", `{"weights": {"1": "4.0", "2": 3}}`, map[int]float64{2: 3}},
		{"non numeric value", `{"weights": {"1": abc, "2": 3}}`, map[int]float64{2: 3}},
		{"nan skipped", `{"weights": {"1": NaN, "2": Inf, "3": 1e2}}`, map[int]float64{3: 100}},
		{"extra colon skipped", `{"weights": {"1": 2: 3, "4": 5}}`, map[int]float64{4: 5}},
		{"missing value", `{"weights": {"1":, "2": 1}}`, map[int]float64{2: 1}},
		{"trailing comma", `{"weights": {"1": 1,}}`, map[int]float64{1: 1}},
		{"duplicate key last wins", `{"weights": {"1": 1, "1": 2}}`, map[int]float64{1: 2}},
		{"whitespace and newlines", "{\n  \"weights\" : {\n    \"5\" :\t0.5 ,\n    \"6\": 1.5\n  }\n}", map[int]float64{5: 0.5, 6: 1.5}},
		{"object before key ignored", `{"other": {"9": 1}, "weights": {"1": 5}}`, map[int]float64{1: 5}},
		{"surrounding payload", `{"status":"ok","weights":{"3":7},"version":2}`, map[int]float64{3: 7}},
		{"unterminated quote", `{"weights": {"1": 2, "3`, map[int]float64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := gacha.ExtractWeights(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

// A missing closing quote ends the key at its separator.
func TestExtractWeights_UnterminatedQuoteInBody(t *testing.T) {
	cases := map[string]map[int]float64{
		`{"weights": {"1": 2, "3: 4}}`:         {1: 2, 3: 4},
		`{"weights": {"1: 2, "3": 4}}`:         {1: 2, 3: 4},
		`{"weights": {"1": 2, "3: 4, "5": 6}}`: {1: 2, 3: 4, 5: 6},
		`{"weights": {"1": 2, "x: 4}}`:         {1: 2},
	}
	for text, want := range cases {
		assert.Equal(t, want, gacha.ExtractWeights(text), text)
	}
}

func TestExtractWeights_ValidPairsSurviveGarbage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		valid := rapid.MapOf(rapid.IntRange(-1000, 1000), rapid.Float64Range(0, 1e6)).Draw(rt, "valid")
		garbage := rapid.SliceOf(rapid.StringMatching(`[a-z]{1,6}`)).Draw(rt, "garbage")

		var pairs []string
		for k, v := range valid {
			pairs = append(pairs, `"`+strconv.Itoa(k)+`": `+strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, g := range garbage {
			pairs = append(pairs, `"`+g+`": 1.0`)
		}
		text := `{"weights": {` + strings.Join(pairs, ", ") + `}}`

		got := gacha.ExtractWeights(text)
		assert.Equal(rt, len(valid), len(got), "garbage keys must not appear")
		for k, v := range valid {
			assert.Equal(rt, v, got[k])
		}
	})
}

func TestExtractWeights_TotalOnArbitraryText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")
		if rapid.Bool().Draw(rt, "prefixed") {
			text = `"weights"` + text
		}
		got := gacha.ExtractWeights(text)
		require.NotNil(rt, got)
		for _, v := range got {
			assert.False(rt, math.IsNaN(v) || math.IsInf(v, 0), "value %v must be finite", v)
		}
	})
}
