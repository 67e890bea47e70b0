package gacha

import (
	"fmt"
	"sort"
)

// Character is one catalog record. The field tags follow the catalog payload
// served to clients, where the id is called "masternumber".
type Character struct {
	ID     int    `json:"masternumber" yaml:"masternumber"`
	Rarity Rarity `json:"rarity" yaml:"rarity"`
	Name   string `json:"name" yaml:"name"`
	Type   int    `json:"type" yaml:"type"`
}

// Catalog is an immutable set of characters grouped by rarity.
// Within a rarity, characters are kept in ascending id order regardless of
// load order.
type Catalog struct {
	byRarity map[Rarity][]Character
	size     int
}

// NewCatalog groups records by rarity. It fails on an empty name or a
// repeated id; the returned error names the offending record.
func NewCatalog(records []Character) (Catalog, error) {
	seen := make(map[int]struct{}, len(records))
	groups := make(map[Rarity][]Character)
	for i, c := range records {
		if err := validateCharacter(c); err != nil {
			return Catalog{}, fmt.Errorf("record %d (id %d): %w", i, c.ID, err)
		}
		if _, dup := seen[c.ID]; dup {
			return Catalog{}, fmt.Errorf("record %d: %w: %d", i, ErrDuplicateCharacter, c.ID)
		}
		seen[c.ID] = struct{}{}
		groups[c.Rarity] = append(groups[c.Rarity], c)
	}
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].ID < g[j].ID })
	}
	return Catalog{byRarity: groups, size: len(records)}, nil
}

// Len reports the number of characters.
func (c Catalog) Len() int { return c.size }

// CountByRarity returns how many characters have rarity r.
func (c Catalog) CountByRarity(r Rarity) int { return len(c.byRarity[r]) }

// CharactersOfRarity returns the characters of rarity r ordered by id.
// The slice is a copy.
func (c Catalog) CharactersOfRarity(r Rarity) []Character {
	g := c.byRarity[r]
	if len(g) == 0 {
		return nil
	}
	return append([]Character(nil), g...)
}

// Rarities lists every rarity that has at least one character, ascending.
func (c Catalog) Rarities() []Rarity {
	out := make([]Rarity, 0, len(c.byRarity))
	for r := range c.byRarity {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup finds a character by id.
func (c Catalog) Lookup(id int) (Character, bool) {
	for _, g := range c.byRarity {
		for _, ch := range g {
			if ch.ID == id {
				return ch, true
			}
		}
	}
	return Character{}, false
}

// CharacterPercent is the chance, in percent, of pulling one specific
// character: the rarity's normalized percent split evenly across the
// characters of that rarity. ok is false for an unknown id or when the
// character's rarity has no derivable probability in w.
func (c Catalog) CharacterPercent(w WeightTable, id int) (pct float64, ok bool) {
	ch, found := c.Lookup(id)
	if !found {
		return 0, false
	}
	rarityPct, ok := w.NormalizedPercent(ch.Rarity)
	if !ok {
		return 0, false
	}
	return rarityPct / float64(c.CountByRarity(ch.Rarity)), true
}
