package counter

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"
)

// CategoryStats summarizes document lengths within one category.
type CategoryStats struct {
	Category  string
	Documents int
	Total     int
	Min       int
	Max       int
}

// Mean returns the average document length, or 0 for an empty category.
func (s CategoryStats) Mean() float64 {
	if s.Documents == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Documents)
}

// Summarize counts every text with c and groups the results by label.
// Categories are returned in name order; the final entry, labeled "total", covers all texts.
func Summarize(c Counter, labels, texts []string) []CategoryStats {
	byCategory := make(map[string]*CategoryStats)
	all := CategoryStats{Category: "total"}

	add := func(s *CategoryStats, n int) {
		if s.Documents == 0 || n < s.Min {
			s.Min = n
		}
		if n > s.Max {
			s.Max = n
		}
		s.Documents++
		s.Total += n
	}

	for i, text := range texts {
		label := labels[i]
		s, ok := byCategory[label]
		if !ok {
			s = &CategoryStats{Category: label}
			byCategory[label] = s
		}

		n := c.Count(text)
		add(s, n)
		add(&all, n)
	}

	stats := make([]CategoryStats, 0, len(byCategory)+1)
	for _, s := range byCategory {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	stats = append(stats, all)

	slog.Debug("Corpus statistics computed", "method", c.Name(), "categories", len(byCategory), "documents", all.Documents)
	return stats
}

// FormatStats renders stats as an aligned table headed by the counting unit.
func FormatStats(stats []CategoryStats, unit string) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "category\tdocuments\t%s\tmean\tmin\tmax\t\n", unit)
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%d\t%d\t\n", s.Category, s.Documents, s.Total, s.Mean(), s.Min, s.Max)
	}
	w.Flush()
	return sb.String()
}
