package gacha

import (
	"errors"
	"math"
	"sort"
)

var ErrSpreadParams = errors.New("pulls and trials must be >= 1")

// Stats summarizes a sample of observed percentages.
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// SpreadRow is the sampling distribution of one rarity's observed percent.
type SpreadRow struct {
	Rarity   Rarity  `json:"rarity"`
	Expected float64 `json:"expected_pct"`
	Observed Stats   `json:"observed_pct"`
}

// calcStats computes mean, population variance and interpolated percentiles.
func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}

// Spread runs trials independent sessions of pulls draws each and reports,
// per weighted rarity, how the observed percent is distributed. It tells how
// large a delta sampling noise alone produces at a given pull count.
func Spread(w WeightTable, pulls, trials int, rng RandomSource) ([]SpreadRow, error) {
	if pulls <= 0 || trials <= 0 {
		return nil, ErrSpreadParams
	}
	if w.TotalWeight() <= 0 {
		return nil, ErrNoWeights
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	rarities := w.Rarities()
	samples := make(map[Rarity][]float64, len(rarities))
	for _, r := range rarities {
		samples[r] = make([]float64, 0, trials)
	}

	ledger := NewLedger()
	for t := 0; t < trials; t++ {
		ledger.Clear()
		for i := 0; i < pulls; i++ {
			r, err := DrawRarity(w, rng)
			if err != nil {
				return nil, err
			}
			ledger.Record(r)
		}
		for _, r := range rarities {
			pct, _ := ledger.ActualPercent(r)
			samples[r] = append(samples[r], pct)
		}
	}

	out := make([]SpreadRow, 0, len(rarities))
	for _, r := range rarities {
		exp, _ := w.NormalizedPercent(r)
		out = append(out, SpreadRow{Rarity: r, Expected: exp, Observed: calcStats(samples[r])})
	}
	return out, nil
}
