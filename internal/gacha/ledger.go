package gacha

import "sort"

// Tally is the read side of a pull ledger.
type Tally interface {
	CountOf(r Rarity) int
	Total() int
	Rarities() []Rarity
}

// Ledger accumulates observed pull outcomes by rarity. It is append-only
// apart from Clear. The zero value is an empty ledger.
//
// A Ledger is not safe for concurrent use; callers serialize access.
type Ledger struct {
	counts map[Rarity]int
	total  int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{counts: make(map[Rarity]int)}
}

// Record appends one outcome of rarity r.
func (l *Ledger) Record(r Rarity) {
	if l.counts == nil {
		l.counts = make(map[Rarity]int)
	}
	l.counts[r]++
	l.total++
}

// RecordPulls appends the rarity of every pull.
func (l *Ledger) RecordPulls(pulls []Pull) {
	for _, p := range pulls {
		l.Record(p.Rarity)
	}
}

// CountOf returns how many outcomes of rarity r were recorded; 0 if none.
func (l *Ledger) CountOf(r Rarity) int { return l.counts[r] }

// Total returns the number of recorded outcomes.
func (l *Ledger) Total() int { return l.total }

// ActualPercent returns 100 * CountOf(r) / Total(); ok is false before any
// outcome has been recorded.
func (l *Ledger) ActualPercent(r Rarity) (pct float64, ok bool) {
	if l.total == 0 {
		return 0, false
	}
	return 100 * float64(l.counts[r]) / float64(l.total), true
}

// Rarities lists the recorded rarities in ascending order.
func (l *Ledger) Rarities() []Rarity {
	out := make([]Rarity, 0, len(l.counts))
	for r := range l.counts {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear drops every count.
func (l *Ledger) Clear() {
	l.counts = make(map[Rarity]int)
	l.total = 0
}
