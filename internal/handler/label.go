package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/repository"
)

// LabelHandler serves either the category or the tag endpoints; the
// two registries share one implementation and differ only in the
// tables underneath and the word used in responses.
type LabelHandler struct {
	Labels  LabelStore
	Entries EntryStore
	kind    string // "category" or "tag", used in messages
}

func NewCategoryHandler(labels LabelStore, entries EntryStore) *LabelHandler {
	return &LabelHandler{Labels: labels, Entries: entries, kind: "category"}
}

func NewTagHandler(labels LabelStore, entries EntryStore) *LabelHandler {
	return &LabelHandler{Labels: labels, Entries: entries, kind: "tag"}
}

type labelReq struct {
	Name string `json:"name"`
}

// List handles GET /categories (or /tags) sorted by name.
func (h *LabelHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqTimeout(c)
	defer cancel()

	labels, err := h.Labels.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("%s list failed: %v", h.kind, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching " + h.kind + " list"})
	}
	return c.JSON(http.StatusOK, labels)
}

// Create handles POST /categories (or /tags). Names are free-form and
// may repeat; there is no per-user uniqueness requirement.
func (h *LabelHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req labelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	label, err := h.Labels.Create(ctx, userID, req.Name)
	if err != nil {
		log.Printf("%s create failed: %v", h.kind, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error creating " + h.kind})
	}
	return c.JSON(http.StatusCreated, label)
}

// Rename handles PUT /categories/:id (or /tags/:id).
func (h *LabelHandler) Rename(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req labelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqTimeout(c)
	defer cancel()

	label, err := h.Labels.UpdateName(ctx, id, userID, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrLabelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": h.kind + " not found"})
		}
		log.Printf("%s rename failed: %v", h.kind, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error updating " + h.kind})
	}
	return c.JSON(http.StatusOK, label)
}

// Delete handles DELETE /categories/:id (or /tags/:id). The label and
// its junction rows go away together; entries that referenced it keep
// existing without it.
func (h *LabelHandler) Delete(c echo.Context) error {
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

	label, err := h.Labels.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrLabelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": h.kind + " not found"})
		}
		log.Printf("%s delete failed: %v", h.kind, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error deleting " + h.kind})
	}
	msg := "Category deleted"
	if h.kind == "tag" {
		msg = "Tag deleted"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, h.kind: label})
}

// ListJournals handles GET /categories/:id/journals (or
// /tags/:id/journals): the live entries linked to one label. Ownership
// of the label is checked first so foreign ids read as missing.
func (h *LabelHandler) ListJournals(c echo.Context) error {
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

	if _, err := h.Labels.GetByIDAndOwner(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrLabelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": h.kind + " not found"})
		}
		log.Printf("%s lookup failed: %v", h.kind, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching " + h.kind})
	}

	if h.kind == "category" {
		list, err := h.Entries.ListByCategory(ctx, id)
		if err != nil {
			log.Printf("category journals failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching entries"})
		}
		return c.JSON(http.StatusOK, list)
	}
	list, err := h.Entries.ListByTag(ctx, id)
	if err != nil {
		log.Printf("tag journals failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching entries"})
	}
	return c.JSON(http.StatusOK, list)
}
