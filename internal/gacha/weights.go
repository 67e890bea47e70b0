package gacha

import (
	"math"
	"sort"
)

// Rarity is an integer tier of a draw outcome. Whether higher means rarer is
// up to the data source.
type Rarity int

// WeightEntry assigns a relative weight to one rarity.
type WeightEntry struct {
	Rarity Rarity  `json:"rarity" yaml:"rarity"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// WeightTable is an immutable rarity -> weight snapshot.
// The zero value is an empty table.
type WeightTable struct {
	weights map[Rarity]float64
	total   float64
	// cum holds the running weight sum over positive-weight rarities in
	// ascending order; DrawRarity searches it.
	cum []step
}

type step struct {
	rarity Rarity
	upTo   float64
}

// NewWeightTable builds a table from entries. When a rarity repeats, the last
// entry wins. An entry with a negative rarity or a negative or non-finite
// weight is invalid; if it is the last entry for its rarity, that rarity is
// left out of the table.
func NewWeightTable(entries []WeightEntry) WeightTable {
	m := make(map[Rarity]float64, len(entries))
	for _, e := range entries {
		if validateEntry(e) != nil {
			delete(m, e.Rarity)
			continue
		}
		m[e.Rarity] = e.Weight
	}
	t := WeightTable{weights: m}
	for _, r := range t.Rarities() {
		w := m[r]
		t.total += w
		if w > 0 {
			t.cum = append(t.cum, step{rarity: r, upTo: t.total})
		}
	}
	return t
}

// EntriesFromMap converts an extracted mapping into entries ordered by rarity.
func EntriesFromMap(m map[int]float64) []WeightEntry {
	out := make([]WeightEntry, 0, len(m))
	for k, v := range m {
		out = append(out, WeightEntry{Rarity: Rarity(k), Weight: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rarity < out[j].Rarity })
	return out
}

// TotalWeight is the sum of all weights; 0 for an empty table.
func (t WeightTable) TotalWeight() float64 { return t.total }

// Len reports the number of rarities in the table.
func (t WeightTable) Len() int { return len(t.weights) }

// Weight returns the raw weight of r.
func (t WeightTable) Weight(r Rarity) (float64, bool) {
	w, ok := t.weights[r]
	return w, ok
}

// NormalizedPercent returns 100 * weight(r) / TotalWeight().
// ok is false when r is not in the table or the total weight is zero.
func (t WeightTable) NormalizedPercent(r Rarity) (pct float64, ok bool) {
	w, found := t.weights[r]
	if !found || t.total <= 0 {
		return 0, false
	}
	return 100 * w / t.total, true
}

// Rarities lists the table's rarities in ascending order.
func (t WeightTable) Rarities() []Rarity {
	out := make([]Rarity, 0, len(t.weights))
	for r := range t.weights {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Entries returns the table contents ordered by rarity.
func (t WeightTable) Entries() []WeightEntry {
	rs := t.Rarities()
	out := make([]WeightEntry, len(rs))
	for i, r := range rs {
		out[i] = WeightEntry{Rarity: r, Weight: t.weights[r]}
	}
	return out
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
