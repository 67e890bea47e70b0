package gacha

import (
	"fmt"
	"strings"
)

const undefinedText = "n/a"

// FormatRates lists the normalized percent of every rarity in w.
func FormatRates(w WeightTable) string {
	var sb strings.Builder
	if w.Len() == 0 {
		sb.WriteString("no weight data\n")
		return sb.String()
	}
	sb.WriteString("Rarity rates:\n")
	for _, r := range w.Rarities() {
		pct, ok := w.NormalizedPercent(r)
		fmt.Fprintf(&sb, "  rarity %d: %s\n", r, pctText(pct, ok, "%.2f%%"))
	}
	return sb.String()
}

// FormatCharacters lists, per rarity, the chance of one specific character
// followed by the names in that rarity.
func FormatCharacters(rep Report) string {
	var sb strings.Builder
	if len(rep.Characters) == 0 {
		sb.WriteString("no character rates available\n")
		return sb.String()
	}
	sb.WriteString("Character rates:\n")
	for i := 0; i < len(rep.Characters); {
		head := rep.Characters[i]
		j := i
		names := make([]string, 0, head.GroupSize)
		for j < len(rep.Characters) && rep.Characters[j].Rarity == head.Rarity {
			names = append(names, rep.Characters[j].Name)
			j++
		}
		fmt.Fprintf(&sb, "rarity %d (rate %.2f%% / %d characters = %.4f%% each)\n",
			head.Rarity, head.RarityPct, head.GroupSize, head.Percent)
		fmt.Fprintf(&sb, "  %s\n", strings.Join(names, " "))
		i = j
	}
	return sb.String()
}

// FormatComparison shows observed counts and compares them with the
// configured rates.
func FormatComparison(rep Report) string {
	var sb strings.Builder
	if !rep.HasPulls() {
		sb.WriteString("no pulls recorded yet\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Observed rates (%d pulls):\n", rep.TotalPulls)
	rows := append(append([]RarityRow(nil), rep.Rarities...), rep.Unweighted...)
	for _, row := range rows {
		if row.Count == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  rarity %d: %d / %d = %s\n", row.Rarity, row.Count, rep.TotalPulls, ptrText(row.Actual, "%.2f%%"))
	}

	if rep.TotalWeight <= 0 {
		sb.WriteString("\nno weight data to compare against\n")
		return sb.String()
	}
	sb.WriteString("\nObserved vs configured:\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "  rarity %d: actual %s / expected %s (delta %s)\n",
			row.Rarity,
			ptrText(row.Actual, "%.2f%%"),
			ptrText(row.Expected, "%.2f%%"),
			ptrText(row.Delta, "%+.2f%%"))
	}
	if rep.Fit != nil {
		fmt.Fprintf(&sb, "  chi-square %.4f (dof %d)\n", rep.Fit.ChiSquare, rep.Fit.DegreesOfFreedom)
	}
	return sb.String()
}

// FormatSpread lists the simulated spread of observed percentages.
func FormatSpread(rows []SpreadRow, pulls, trials int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Simulated spread (%d pulls x %d trials):\n", pulls, trials)
	for _, row := range rows {
		fmt.Fprintf(&sb, "  rarity %d: expected %.2f%% mean %.2f%% sd %.2f p50 %.2f%% p90 %.2f%% p99 %.2f%%\n",
			row.Rarity, row.Expected, row.Observed.Mean, row.Observed.StdDev,
			row.Observed.P50, row.Observed.P90, row.Observed.P99)
	}
	return sb.String()
}

// FormatPulls lists simulated pulls one per line.
func FormatPulls(pulls []Pull) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pulled %d:\n", len(pulls))
	for i, p := range pulls {
		name := "(no character)"
		if p.Character != nil {
			name = p.Character.Name
		}
		fmt.Fprintf(&sb, "  %d: %s (rarity %d)\n", i+1, name, p.Rarity)
	}
	return sb.String()
}

func pctText(v float64, ok bool, format string) string {
	if !ok {
		return undefinedText
	}
	return fmt.Sprintf(format, v)
}

func ptrText(v *float64, format string) string {
	if v == nil {
		return undefinedText
	}
	return fmt.Sprintf(format, *v)
}
