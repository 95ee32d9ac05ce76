package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/model"
	"github.com/inkwell-app/inkwell/internal/repository"
)

// fakeEntryStore is an in-memory EntryStore for handler tests. It
// mirrors the persistence rules: reads filter soft-deleted rows,
// lookups are owner-scoped, association sets are replaced wholesale.
type fakeEntryStore struct {
	nextID  uint64
	entries map[uint64]*model.JournalEntry
	labels  map[uint64]*model.Label // shared label set for resolving ids
	failAll bool
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{
		nextID:  1,
		entries: map[uint64]*model.JournalEntry{},
		labels:  map[uint64]*model.Label{},
	}
}

func (f *fakeEntryStore) resolve(ids []uint64) []model.Label {
	out := []model.Label{}
	seen := map[uint64]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if l, ok := f.labels[id]; ok {
			out = append(out, *l)
		}
	}
	return out
}

func (f *fakeEntryStore) Create(_ context.Context, userID uint64, title, content string, categoryIDs, tagIDs []uint64) (*model.JournalEntry, error) {
	if f.failAll {
		return nil, context.DeadlineExceeded
	}
	e := &model.JournalEntry{
		ID: f.nextID, UserID: userID, Title: title, Content: content,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
		Categories: f.resolve(categoryIDs), Tags: f.resolve(tagIDs),
	}
	f.nextID++
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeEntryStore) GetByIDAndOwner(_ context.Context, id, userID uint64) (*model.JournalEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID || e.DeletedAt != nil {
		return nil, repository.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryStore) Update(_ context.Context, id, userID uint64, title, content string, categoryIDs, tagIDs []uint64) (*model.JournalEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID || e.DeletedAt != nil {
		return nil, repository.ErrEntryNotFound
	}
	e.Title, e.Content = title, content
	e.Categories = f.resolve(categoryIDs)
	e.Tags = f.resolve(tagIDs)
	e.UpdatedAt = time.Now().UTC()
	return e, nil
}

func (f *fakeEntryStore) SoftDelete(_ context.Context, id, userID uint64) (*model.JournalEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrEntryNotFound
	}
	// Idempotent: an already-deleted entry is re-stamped, not rejected.
	now := time.Now().UTC()
	e.DeletedAt = &now
	return e, nil
}

func (f *fakeEntryStore) ListByUser(_ context.Context, userID uint64) ([]*model.JournalEntry, error) {
	if f.failAll {
		return nil, context.DeadlineExceeded
	}
	out := []*model.JournalEntry{}
	for _, e := range f.entries {
		if e.UserID == userID && e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) listByLabel(labelID uint64, tags bool) []*model.JournalEntry {
	out := []*model.JournalEntry{}
	for _, e := range f.entries {
		if e.DeletedAt != nil {
			continue
		}
		set := e.Categories
		if tags {
			set = e.Tags
		}
		for _, l := range set {
			if l.ID == labelID {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (f *fakeEntryStore) ListByCategory(_ context.Context, categoryID uint64) ([]*model.JournalEntry, error) {
	return f.listByLabel(categoryID, false), nil
}

func (f *fakeEntryStore) ListByTag(_ context.Context, tagID uint64) ([]*model.JournalEntry, error) {
	return f.listByLabel(tagID, true), nil
}

// fakeLabelStore backs the category/tag handler tests. It shares the
// label map with a fakeEntryStore so junction behavior lines up.
type fakeLabelStore struct {
	entries *fakeEntryStore
	nextID  uint64
}

func newFakeLabelStore(entries *fakeEntryStore) *fakeLabelStore {
	return &fakeLabelStore{entries: entries, nextID: 1}
}

func (f *fakeLabelStore) Create(_ context.Context, userID uint64, name string) (*model.Label, error) {
	l := &model.Label{ID: f.nextID, UserID: userID, Name: name, CreatedAt: time.Now().UTC()}
	f.nextID++
	f.entries.labels[l.ID] = l
	return l, nil
}

func (f *fakeLabelStore) GetByIDAndOwner(_ context.Context, id, userID uint64) (*model.Label, error) {
	l, ok := f.entries.labels[id]
	if !ok || l.UserID != userID {
		return nil, repository.ErrLabelNotFound
	}
	return l, nil
}

func (f *fakeLabelStore) ListByUser(_ context.Context, userID uint64) ([]*model.Label, error) {
	out := []*model.Label{}
	for _, l := range f.entries.labels {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLabelStore) UpdateName(_ context.Context, id, userID uint64, name string) (*model.Label, error) {
	l, ok := f.entries.labels[id]
	if !ok || l.UserID != userID {
		return nil, repository.ErrLabelNotFound
	}
	l.Name = name
	return l, nil
}

func (f *fakeLabelStore) Delete(_ context.Context, id, userID uint64) (*model.Label, error) {
	l, ok := f.entries.labels[id]
	if !ok || l.UserID != userID {
		return nil, repository.ErrLabelNotFound
	}
	delete(f.entries.labels, id)
	for _, e := range f.entries.entries {
		e.Categories = withoutLabel(e.Categories, id)
		e.Tags = withoutLabel(e.Tags, id)
	}
	return l, nil
}

func withoutLabel(in []model.Label, id uint64) []model.Label {
	out := in[:0]
	for _, l := range in {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

// newTestCtx builds an echo context carrying the given user id, the
// way JWTAuth leaves it after validating a token.
func newTestCtx(method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", float64(userID)) // numeric JWT claims decode as float64
	}
	return c, rec
}

func decodeBody(rec *httptest.ResponseRecorder, dst any) error {
	return json.Unmarshal(rec.Body.Bytes(), dst)
}
