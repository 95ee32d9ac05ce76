package handler

import (
	"context"
	"net/http"
	"testing"
)

func TestAnalyticsSummaryCountsLiveEntriesOnly(t *testing.T) {
	store := newFakeEntryStore()
	ids := seedLabels(store, 1, "work", "health")
	h := NewAnalyticsHandler(store)

	store.Create(context.Background(), 1, "a", "text", ids, nil)
	store.Create(context.Background(), 1, "b", "text", ids[:1], nil)
	gone, _ := store.Create(context.Background(), 1, "c", "text", ids[:1], nil)
	store.SoftDelete(context.Background(), gone.ID, 1)

	c, rec := newTestCtx(http.MethodGet, "/analytics", "", 1)
	if err := h.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		TotalEntries   int            `json:"totalEntries"`
		CategoryCounts map[string]int `json:"categoryCounts"`
		MonthlyCounts  []struct {
			Month string `json:"month"`
			Count int    `json:"count"`
		} `json:"monthlyCounts"`
	}
	if err := decodeBody(rec, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalEntries != 2 {
		t.Fatalf("totalEntries = %d, want 2 (deleted entry excluded)", resp.TotalEntries)
	}
	if resp.CategoryCounts["work"] != 2 || resp.CategoryCounts["health"] != 1 {
		t.Fatalf("categoryCounts = %v", resp.CategoryCounts)
	}
	if len(resp.MonthlyCounts) != 1 || resp.MonthlyCounts[0].Count != 2 {
		t.Fatalf("monthlyCounts = %v, want one bucket of 2", resp.MonthlyCounts)
	}
}

func TestAnalyticsEmptyUser(t *testing.T) {
	h := NewAnalyticsHandler(newFakeEntryStore())

	c, rec := newTestCtx(http.MethodGet, "/analytics", "", 7)
	if err := h.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp struct {
		TotalEntries   int            `json:"totalEntries"`
		CategoryCounts map[string]int `json:"categoryCounts"`
	}
	if err := decodeBody(rec, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalEntries != 0 || len(resp.CategoryCounts) != 0 {
		t.Fatalf("want empty aggregates, got %+v", resp)
	}
}
