package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/analytics"
)

// AnalyticsHandler serves GET /analytics: the aggregate view over the
// caller's live entries. Soft-deleted entries never reach the
// aggregation because the store filters them out.
type AnalyticsHandler struct {
	Entries EntryStore
}

func NewAnalyticsHandler(entries EntryStore) *AnalyticsHandler {
	return &AnalyticsHandler{Entries: entries}
}

func (h *AnalyticsHandler) Summary(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqTimeout(c)
	defer cancel()

	entries, err := h.Entries.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("analytics fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error computing analytics"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalEntries":   len(entries),
		"categoryCounts": analytics.CategoryCounts(entries),
		"monthlyCounts":  analytics.MonthlyCounts(entries),
	})
}
