package gacha_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xtding233/gacha-rates/internal/gacha"
)

type helperT interface {
	require.TestingT
	Helper()
}

func sampleCatalog(t helperT) gacha.Catalog {
	t.Helper()
	c, err := gacha.NewCatalog([]gacha.Character{
		{ID: 12, Rarity: 3, Name: "Mira"},
		{ID: 3, Rarity: 3, Name: "Aoi"},
		{ID: 7, Rarity: 3, Name: "Ren"},
		{ID: 1, Rarity: 3, Name: "Kai"},
		{ID: 2, Rarity: 1, Name: "Slime"},
		{ID: 40, Rarity: 9, Name: "Ghost"},
	})
	require.NoError(t, err)
	return c
}

func TestCatalog_GroupsByRarityInIDOrder(t *testing.T) {
	c := sampleCatalog(t)
	assert.Equal(t, 6, c.Len())
	assert.Equal(t, 4, c.CountByRarity(3))
	assert.Equal(t, 0, c.CountByRarity(5))
	assert.Equal(t, []gacha.Rarity{1, 3, 9}, c.Rarities())

	var ids []int
	for _, ch := range c.CharactersOfRarity(3) {
		ids = append(ids, ch.ID)
	}
	assert.Equal(t, []int{1, 3, 7, 12}, ids)
	assert.Nil(t, c.CharactersOfRarity(5))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := sampleCatalog(t)
	group := c.CharactersOfRarity(3)
	group[0].Name = "changed"
	assert.Equal(t, "Kai", c.CharactersOfRarity(3)[0].Name)
}

func TestCatalog_RejectsDuplicateID(t *testing.T) {
	_, err := gacha.NewCatalog([]gacha.Character{
		{ID: 1, Rarity: 1, Name: "a"},
		{ID: 1, Rarity: 2, Name: "b"},
	})
	assert.ErrorIs(t, err, gacha.ErrDuplicateCharacter)
}

func TestCatalog_RejectsEmptyName(t *testing.T) {
	_, err := gacha.NewCatalog([]gacha.Character{{ID: 1, Rarity: 1, Name: "  "}})
	assert.ErrorIs(t, err, gacha.ErrEmptyName)
}

func TestCatalog_CharacterPercent(t *testing.T) {
	c := sampleCatalog(t)
	w := sampleTable()

	pct, ok := c.CharacterPercent(w, 7)
	require.True(t, ok)
	assert.InDelta(t, 5.0, pct, 1e-9)

	_, ok = c.CharacterPercent(w, 40)
	assert.False(t, ok, "rarity 9 has no weight")
	_, ok = c.CharacterPercent(w, 999)
	assert.False(t, ok, "unknown id")
}

func TestCatalog_OrderIndependentOfInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.IntRange(1, 500), 1, 30, rapid.ID[int]).Draw(rt, "ids")
		records := make([]gacha.Character, len(ids))
		for i, id := range ids {
			records[i] = gacha.Character{ID: id, Rarity: gacha.Rarity(id % 4), Name: "c"}
		}
		shuffled := rapid.Permutation(records).Draw(rt, "shuffled")

		a, err := gacha.NewCatalog(records)
		require.NoError(rt, err)
		b, err := gacha.NewCatalog(shuffled)
		require.NoError(rt, err)
		for _, r := range a.Rarities() {
			group := a.CharactersOfRarity(r)
			assert.Equal(rt, group, b.CharactersOfRarity(r))
			for i := 1; i < len(group); i++ {
				assert.Less(rt, group[i-1].ID, group[i].ID)
			}
		}
	})
}
