// Package handler defines the HTTP handlers for the journal API.
// Handlers consume small store interfaces satisfied by the repository
// types, which keeps them testable against in-memory fakes.
package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/model"
)

// EntryStore is the persistence surface the journal handlers need.
// *repository.EntryRepo implements it.
type EntryStore interface {
	Create(ctx context.Context, userID uint64, title, content string, categoryIDs, tagIDs []uint64) (*model.JournalEntry, error)
	GetByIDAndOwner(ctx context.Context, id, userID uint64) (*model.JournalEntry, error)
	Update(ctx context.Context, id, userID uint64, title, content string, categoryIDs, tagIDs []uint64) (*model.JournalEntry, error)
	SoftDelete(ctx context.Context, id, userID uint64) (*model.JournalEntry, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.JournalEntry, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]*model.JournalEntry, error)
	ListByTag(ctx context.Context, tagID uint64) ([]*model.JournalEntry, error)
}

// LabelStore is the persistence surface of the category/tag registry.
// *repository.LabelRepo implements it.
type LabelStore interface {
	Create(ctx context.Context, userID uint64, name string) (*model.Label, error)
	GetByIDAndOwner(ctx context.Context, id, userID uint64) (*model.Label, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Label, error)
	UpdateName(ctx context.Context, id, userID uint64, name string) (*model.Label, error)
	Delete(ctx context.Context, id, userID uint64) (*model.Label, error)
}

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64. JWT numeric claims decode as float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// paramID parses the :id route parameter.
func paramID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
