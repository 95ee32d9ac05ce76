// Package repository contains data access logic separated from HTTP
// handlers. This file implements persistence for journal entries and
// their category/tag associations. Entries are soft-deleted: a delete
// stamps `deleted_at` and every read filters `deleted_at IS NULL`, so
// junction rows pointing at a deleted entry become harmless orphans.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/inkwell-app/inkwell/internal/model"
)

// EntryRepo encapsulates all database queries related to journal
// entries. It depends on a sql.DB connection configured at startup.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo constructs an EntryRepo with the provided DB handle.
func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// dedupe returns ids with duplicates removed, preserving order.
// Replacing an association set must never produce duplicate junction
// rows even when the client repeats an id.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// insertLinksTx bulk-inserts junction rows for one entry inside an
// existing transaction. Passing an empty slice has no effect.
func insertLinksTx(ctx context.Context, tx *sql.Tx, table, column string, entryID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	query := "INSERT INTO " + table + " (entry_id, " + column + ") VALUES "
	args := make([]interface{}, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, entryID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Create inserts a new journal entry together with one junction row
// per distinct category and tag id, all within a single transaction.
// On success the fully populated aggregate (fresh joins included) is
// returned. Title/content validation happens in the handler layer.
func (r *EntryRepo) Create(ctx context.Context, userID uint64, title, content string, categoryIDs, tagIDs []uint64) (*model.JournalEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	const qInsert = "INSERT INTO journal_entries (user_id, title, content) VALUES (?, ?, ?)"
	res, err := tx.ExecContext(ctx, qInsert, userID, title, content)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	entryID := uint64(id)

	if err := insertLinksTx(ctx, tx, "entry_categories", "category_id", entryID, dedupe(categoryIDs)); err != nil {
		return nil, err
	}
	if err := insertLinksTx(ctx, tx, "entry_tags", "tag_id", entryID, dedupe(tagIDs)); err != nil {
		return nil, err
	}

	entry, err := r.getTx(ctx, tx, entryID, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetByIDAndOwner fetches a live entry with its joined categories and
// tags. It returns ErrEntryNotFound when the row does not exist, is
// soft-deleted, or is owned by a different user.
func (r *EntryRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (*model.JournalEntry, error) {
	return r.get(ctx, r.db, id, userID)
}

// querier abstracts *sql.DB and *sql.Tx so aggregate reads can run
// both standalone and inside the create/update transactions.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *EntryRepo) get(ctx context.Context, q querier, id, userID uint64) (*model.JournalEntry, error) {
	const sel = `SELECT id, user_id, title, content, created_at, updated_at
	             FROM journal_entries
	             WHERE id = ? AND user_id = ? AND deleted_at IS NULL`
	var e model.JournalEntry
	err := q.QueryRowContext(ctx, sel, id, userID).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Content, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if err := loadLabels(ctx, q, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EntryRepo) getTx(ctx context.Context, tx *sql.Tx, id, userID uint64) (*model.JournalEntry, error) {
	return r.get(ctx, tx, id, userID)
}

// loadLabels populates the Categories and Tags slices of one entry.
// INNER JOINs against the label tables drop junction rows whose
// category or tag was deleted, so dangling references never surface.
func loadLabels(ctx context.Context, q querier, e *model.JournalEntry) error {
	var err error
	if e.Categories, err = queryLabels(ctx, q,
		`SELECT c.id, c.user_id, c.name, c.created_at
		 FROM entry_categories ec
		 JOIN categories c ON c.id = ec.category_id
		 WHERE ec.entry_id = ?
		 ORDER BY c.name`, e.ID); err != nil {
		return err
	}
	e.Tags, err = queryLabels(ctx, q,
		`SELECT t.id, t.user_id, t.name, t.created_at
		 FROM entry_tags et
		 JOIN tags t ON t.id = et.tag_id
		 WHERE et.entry_id = ?
		 ORDER BY t.name`, e.ID)
	return err
}

func queryLabels(ctx context.Context, q querier, query string, entryID uint64) ([]model.Label, error) {
	rows, err := q.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Label{}
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update replaces the title, content and the entire association set of
// a live entry. The prior junction rows are deleted and the new
// distinct set inserted within one transaction, so a concurrent reader
// never observes a partially replaced set and no stale or duplicate
// associations survive. Returns ErrEntryNotFound when the id does not
// resolve to a live entry owned by userID.
func (r *EntryRepo) Update(ctx context.Context, id, userID uint64, title, content string, categoryIDs, tagIDs []uint64) (*model.JournalEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	// Lock the row first: UPDATE alone reports zero affected rows when
	// the new values equal the old ones, which would be mistaken for
	// not-found.
	var existing uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM journal_entries WHERE id = ? AND user_id = ? AND deleted_at IS NULL FOR UPDATE`,
		id, userID).Scan(&existing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE journal_entries SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, content, id); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_categories WHERE entry_id = ?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, id); err != nil {
		return nil, err
	}
	if err := insertLinksTx(ctx, tx, "entry_categories", "category_id", id, dedupe(categoryIDs)); err != nil {
		return nil, err
	}
	if err := insertLinksTx(ctx, tx, "entry_tags", "tag_id", id, dedupe(tagIDs)); err != nil {
		return nil, err
	}

	entry, err := r.getTx(ctx, tx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// SoftDelete stamps deleted_at on the entry and returns the stamped
// record (without joins, matching the delete response shape). The
// operation is idempotent: deleting an already-deleted entry re-stamps
// the timestamp without error. Junction rows are left untouched; reads
// filter the entry out regardless. A missing or foreign id yields
// ErrEntryNotFound.
func (r *EntryRepo) SoftDelete(ctx context.Context, id, userID uint64) (*model.JournalEntry, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE journal_entries SET deleted_at = ? WHERE id = ? AND user_id = ?`,
		now, id, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Re-stamping with an identical timestamp also reports zero
		// affected rows; distinguish via an existence probe.
		var exists uint64
		probeErr := r.db.QueryRowContext(ctx,
			`SELECT id FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID).Scan(&exists)
		if errors.Is(probeErr, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		if probeErr != nil {
			return nil, probeErr
		}
	}

	var e model.JournalEntry
	var deletedAt sql.NullTime
	err = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at, deleted_at
		 FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Content, &e.CreatedAt, &e.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		e.DeletedAt = &t
	}
	return &e, nil
}

// ListByUser returns all live entries for a user, newest first, each
// with its categories and tags joined.
func (r *EntryRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.JournalEntry, error) {
	const q = `SELECT id, user_id, title, content, created_at, updated_at
	           FROM journal_entries
	           WHERE user_id = ? AND deleted_at IS NULL
	           ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

// ListByCategory returns all live entries linked to the given category
// through the entry_categories junction table. The soft-delete filter
// applies after the join: a junction row pointing at a deleted entry
// is excluded. Ownership of the category is verified by the caller.
func (r *EntryRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]*model.JournalEntry, error) {
	const q = `SELECT e.id, e.user_id, e.title, e.content, e.created_at, e.updated_at
	           FROM entry_categories ec
	           JOIN journal_entries e ON e.id = ec.entry_id
	           WHERE ec.category_id = ? AND e.deleted_at IS NULL
	           ORDER BY e.created_at DESC`
	return r.list(ctx, q, categoryID)
}

// ListByTag is ListByCategory for the entry_tags junction table.
func (r *EntryRepo) ListByTag(ctx context.Context, tagID uint64) ([]*model.JournalEntry, error) {
	const q = `SELECT e.id, e.user_id, e.title, e.content, e.created_at, e.updated_at
	           FROM entry_tags et
	           JOIN journal_entries e ON e.id = et.entry_id
	           WHERE et.tag_id = ? AND e.deleted_at IS NULL
	           ORDER BY e.created_at DESC`
	return r.list(ctx, q, tagID)
}

func (r *EntryRepo) list(ctx context.Context, query string, arg uint64) ([]*model.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.JournalEntry{}
	for rows.Next() {
		e := new(model.JournalEntry)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range out {
		if err := loadLabels(ctx, r.db, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}
