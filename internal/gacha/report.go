package gacha

// RarityRow compares the configured and observed rate of one rarity.
// Nil percentages are undefined: Expected when the total weight is zero or
// the rarity has no weight, Actual when nothing has been pulled yet, Delta
// when either side is undefined.
type RarityRow struct {
	Rarity   Rarity   `json:"rarity"`
	Weight   float64  `json:"weight"`
	Count    int      `json:"count"`
	Expected *float64 `json:"expected_pct"`
	Actual   *float64 `json:"actual_pct"`
	Delta    *float64 `json:"delta"`
}

// CharacterRow is the chance of pulling one specific character.
type CharacterRow struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Rarity    Rarity  `json:"rarity"`
	RarityPct float64 `json:"rarity_pct"`
	GroupSize int     `json:"group_size"`
	Percent   float64 `json:"probability_pct"`
}

// Fit is Pearson's chi-squared statistic of the observed counts against the
// weight table.
type Fit struct {
	ChiSquare        float64 `json:"chi_square"`
	DegreesOfFreedom int     `json:"dof"`
}

// Report is a derived, disposable view over a weight table, a catalog and a
// tally. Build a new one after every ledger change.
type Report struct {
	TotalWeight float64 `json:"total_weight"`
	TotalPulls  int     `json:"total_pulls"`
	// Rarities has one row per rarity in the weight table, ascending.
	Rarities []RarityRow `json:"rarities"`
	// Unweighted has one row per observed rarity missing from the weight table.
	Unweighted []RarityRow `json:"unweighted,omitempty"`
	// Characters covers catalog rarities that have a defined expected percent,
	// ascending by rarity then id.
	Characters []CharacterRow `json:"characters"`
	Fit        *Fit           `json:"fit,omitempty"`
}

// HasPulls reports whether any outcome backs the Actual columns.
func (r Report) HasPulls() bool { return r.TotalPulls > 0 }

// BuildReport combines the three inputs. It reads but never mutates them.
func BuildReport(w WeightTable, c Catalog, t Tally) Report {
	rep := Report{
		TotalWeight: w.TotalWeight(),
		TotalPulls:  t.Total(),
		Rarities:    make([]RarityRow, 0, w.Len()),
		Characters:  []CharacterRow{},
	}

	for _, r := range w.Rarities() {
		weight, _ := w.Weight(r)
		row := RarityRow{Rarity: r, Weight: weight, Count: t.CountOf(r)}
		if pct, ok := w.NormalizedPercent(r); ok {
			row.Expected = ptr(pct)
		}
		row.Actual = actualPercent(t, r)
		if row.Expected != nil && row.Actual != nil {
			row.Delta = ptr(*row.Actual - *row.Expected)
		}
		rep.Rarities = append(rep.Rarities, row)
	}

	for _, r := range t.Rarities() {
		if _, ok := w.Weight(r); ok {
			continue
		}
		rep.Unweighted = append(rep.Unweighted, RarityRow{
			Rarity: r,
			Count:  t.CountOf(r),
			Actual: actualPercent(t, r),
		})
	}

	for _, r := range c.Rarities() {
		rarityPct, ok := w.NormalizedPercent(r)
		if !ok {
			continue
		}
		group := c.CharactersOfRarity(r)
		each := rarityPct / float64(len(group))
		for _, ch := range group {
			rep.Characters = append(rep.Characters, CharacterRow{
				ID:        ch.ID,
				Name:      ch.Name,
				Rarity:    r,
				RarityPct: rarityPct,
				GroupSize: len(group),
				Percent:   each,
			})
		}
	}

	rep.Fit = fit(rep.Rarities, rep.TotalPulls)
	return rep
}

func actualPercent(t Tally, r Rarity) *float64 {
	total := t.Total()
	if total == 0 {
		return nil
	}
	return ptr(100 * float64(t.CountOf(r)) / float64(total))
}

// fit needs at least two categories with a positive expected rate.
func fit(rows []RarityRow, pulls int) *Fit {
	if pulls == 0 {
		return nil
	}
	var chi float64
	k := 0
	for _, row := range rows {
		if row.Expected == nil || *row.Expected <= 0 {
			continue
		}
		exp := float64(pulls) * *row.Expected / 100
		d := float64(row.Count) - exp
		chi += d * d / exp
		k++
	}
	if k < 2 {
		return nil
	}
	return &Fit{ChiSquare: chi, DegreesOfFreedom: k - 1}
}

func ptr(f float64) *float64 { return &f }
