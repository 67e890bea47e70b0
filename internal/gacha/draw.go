package gacha

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNoWeights = errors.New("weight table is empty or sums to zero")

// DrawRarity picks one rarity with probability weight/TotalWeight.
// Rarities are laid out in ascending order along the cumulative weight, so a
// seeded rng gives the same sequence for the same table.
func DrawRarity(w WeightTable, rng RandomSource) (Rarity, error) {
	if w.total <= 0 || len(w.cum) == 0 {
		return 0, ErrNoWeights
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	x := rng.Float64() * w.total
	i := sort.Search(len(w.cum), func(i int) bool { return x < w.cum[i].upTo })
	if i == len(w.cum) {
		// float rounding at the top of the range
		i--
	}
	return w.cum[i].rarity, nil
}

// Pull is one draw outcome. Character is nil when the catalog has no
// character of the drawn rarity.
type Pull struct {
	Rarity    Rarity     `json:"rarity"`
	Character *Character `json:"character,omitempty"`
}

// Puller simulates draws against a weight table and a catalog.
type Puller struct {
	Weights WeightTable
	Catalog Catalog
	RNG     RandomSource
}

// NewPuller returns a Puller; a nil rng means DefaultRNG.
func NewPuller(w WeightTable, c Catalog, rng RandomSource) *Puller {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Puller{Weights: w, Catalog: c, RNG: rng}
}

// maxPrealloc bounds the slice capacity reserved up front for a pull batch.
const maxPrealloc = 1024

// Pull draws n outcomes. Within the drawn rarity, every character is equally
// likely.
func (p *Puller) Pull(n int) ([]Pull, error) {
	if n <= 0 {
		return nil, nil
	}
	out := make([]Pull, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		r, err := DrawRarity(p.Weights, p.RNG)
		if err != nil {
			return nil, fmt.Errorf("pull %d of %d: %w", i+1, n, err)
		}
		pull := Pull{Rarity: r}
		if group := p.Catalog.CharactersOfRarity(r); len(group) > 0 {
			ch := group[pick(len(group), p.RNG)]
			pull.Character = &ch
		}
		out = append(out, pull)
	}
	return out, nil
}
