// Package analytics derives chart-ready aggregates from a list of
// already-fetched live journal entries. The functions are pure: they
// never touch the database and empty input yields empty output.
package analytics

import (
	"fmt"
	"sort"

	"github.com/inkwell-app/inkwell/internal/model"
)

// MonthCount is one `YYYY-MM` bucket of the monthly frequency chart.
// A slice keeps the chronological ordering that a JSON object would
// lose.
type MonthCount struct {
	Month string `json:"month"` // calendar year and 1-based zero-padded month
	Count int    `json:"count"`
}

// CategoryCounts tallies entries per category name. An entry with N
// categories increments N counters; an entry with none contributes
// nothing.
func CategoryCounts(entries []*model.JournalEntry) map[string]int {
	counts := map[string]int{}
	for _, e := range entries {
		for _, c := range e.Categories {
			counts[c.Name]++
		}
	}
	return counts
}

// MonthlyCounts buckets entries by creation month. Keys use the
// `YYYY-MM` format, so ascending lexicographic order equals
// chronological order.
func MonthlyCounts(entries []*model.JournalEntry) []MonthCount {
	counts := map[string]int{}
	for _, e := range entries {
		key := fmt.Sprintf("%04d-%02d", e.CreatedAt.Year(), int(e.CreatedAt.Month()))
		counts[key]++
	}
	out := make([]MonthCount, 0, len(counts))
	for month, n := range counts {
		out = append(out, MonthCount{Month: month, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
