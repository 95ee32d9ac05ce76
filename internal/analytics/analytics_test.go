package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell/internal/model"
)

func entry(created time.Time, categories ...string) *model.JournalEntry {
	e := &model.JournalEntry{CreatedAt: created}
	for _, name := range categories {
		e.Categories = append(e.Categories, model.Label{Name: name})
	}
	return e
}

func TestCategoryCounts(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		entries []*model.JournalEntry
		want    map[string]int
	}{
		{"empty", nil, map[string]int{}},
		{
			"multi category entries",
			[]*model.JournalEntry{
				entry(now, "Work", "Health"),
				entry(now, "Work"),
			},
			map[string]int{"Work": 2, "Health": 1},
		},
		{
			"uncategorized entries contribute nothing",
			[]*model.JournalEntry{entry(now), entry(now, "Travel")},
			map[string]int{"Travel": 1},
		},
	}
	for _, tc := range cases {
		got := CategoryCounts(tc.entries)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMonthlyCounts(t *testing.T) {
	mk := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}
	got := MonthlyCounts([]*model.JournalEntry{
		entry(mk(2024, time.February, 1)),
		entry(mk(2024, time.January, 15)),
		entry(mk(2024, time.January, 20)),
	})
	want := []MonthCount{
		{Month: "2024-01", Count: 2},
		{Month: "2024-02", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMonthlyCountsZeroPadsMonth(t *testing.T) {
	got := MonthlyCounts([]*model.JournalEntry{
		entry(time.Date(2023, time.September, 3, 0, 0, 0, 0, time.UTC)),
		entry(time.Date(2023, time.December, 3, 0, 0, 0, 0, time.UTC)),
	})
	want := []MonthCount{
		{Month: "2023-09", Count: 1},
		{Month: "2023-12", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMonthlyCountsEmpty(t *testing.T) {
	if got := MonthlyCounts(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
