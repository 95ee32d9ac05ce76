package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/repository"
)

// JournalHandler serves the journal entry CRUD endpoints. Every
// operation is scoped to the authenticated user taken from the JWT;
// the owning user id never comes from the request body.
type JournalHandler struct {
	Entries EntryStore
}

func NewJournalHandler(entries EntryStore) *JournalHandler {
	if entries == nil {
		panic("nil entry store passed to NewJournalHandler")
	}
	return &JournalHandler{Entries: entries}
}

type entryReq struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	CategoryIDs []uint64 `json:"categoryIds"`
	TagIDs      []uint64 `json:"tagIds"`
}

func reqTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// List handles GET /journal and returns all live entries for the
// authenticated user, newest first, with categories and tags joined.
func (h *JournalHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqTimeout(c)
	defer cancel()

	entries, err := h.Entries.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("journal list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching entries"})
	}
	return c.JSON(http.StatusOK, entries)
}

// Create handles POST /journal. Title and content are required; the
// category and tag id sets are attached atomically with the entry.
func (h *JournalHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	entry, err := h.Entries.Create(ctx, userID, req.Title, req.Content, req.CategoryIDs, req.TagIDs)
	if err != nil {
		log.Printf("journal create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error creating entry"})
	}
	return c.JSON(http.StatusCreated, entry)
}

// Get handles GET /journal/:id. Soft-deleted entries and entries
// owned by other users both yield 404.
func (h *JournalHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqTimeout(c)
	defer cancel()

	entry, err := h.Entries.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		log.Printf("journal get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching journal entry"})
	}
	return c.JSON(http.StatusOK, entry)
}

// Update handles PUT /journal/:id. The whole category/tag association
// set is replaced with the sets in the request, including replacement
// by the empty set.
func (h *JournalHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	entry, err := h.Entries.Update(ctx, id, userID, req.Title, req.Content, req.CategoryIDs, req.TagIDs)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		log.Printf("journal update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error updating entry"})
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /journal/:id and soft-deletes the entry. The
// row stays in the database; reads simply stop returning it.
func (h *JournalHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqTimeout(c)
	defer cancel()

	entry, err := h.Entries.SoftDelete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		log.Printf("journal delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error deleting entry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Entry deleted", "entry": entry})
}
