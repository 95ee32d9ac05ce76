package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwell-app/inkwell/internal/model"
)

// LabelRepo provides CRUD for the per-user label tables. Categories
// and tags share identical shape and rules, so a single repository is
// parameterized with the table names; NewCategoryRepo and NewTagRepo
// bind it to the right pair. Deleting a label removes its junction
// rows in the same transaction but never touches the referencing
// journal entries.
type LabelRepo struct {
	db       *sql.DB
	table    string // "categories" or "tags"
	junction string // "entry_categories" or "entry_tags"
	fkColumn string // "category_id" or "tag_id"
}

// NewCategoryRepo returns a LabelRepo bound to the categories tables.
func NewCategoryRepo(db *sql.DB) *LabelRepo {
	return &LabelRepo{db: db, table: "categories", junction: "entry_categories", fkColumn: "category_id"}
}

// NewTagRepo returns a LabelRepo bound to the tags tables.
func NewTagRepo(db *sql.DB) *LabelRepo {
	return &LabelRepo{db: db, table: "tags", junction: "entry_tags", fkColumn: "tag_id"}
}

// Create inserts a new label for the user and returns the populated
// row. Two labels with the same name for one user are permitted; no
// uniqueness constraint exists on (user_id, name).
func (r *LabelRepo) Create(ctx context.Context, userID uint64, name string) (*model.Label, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO "+r.table+" (user_id, name) VALUES (?, ?)", userID, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.getByID(ctx, uint64(id))
}

func (r *LabelRepo) getByID(ctx context.Context, id uint64) (*model.Label, error) {
	var l model.Label
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, created_at FROM "+r.table+" WHERE id = ?", id).Scan(
		&l.ID, &l.UserID, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLabelNotFound
		}
		return nil, err
	}
	return &l, nil
}

// GetByIDAndOwner fetches a label only if it belongs to the given
// user. A missing or foreign row yields ErrLabelNotFound; guessing
// another user's ids must not reveal their existence.
func (r *LabelRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (*model.Label, error) {
	var l model.Label
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, created_at FROM "+r.table+" WHERE id = ? AND user_id = ?",
		id, userID).Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLabelNotFound
		}
		return nil, err
	}
	return &l, nil
}

// ListByUser returns all labels for the user ordered alphabetically.
func (r *LabelRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Label, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, name, created_at FROM "+r.table+" WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Label{}
	for rows.Next() {
		l := new(model.Label)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames a label owned by the user and returns the updated
// row. ErrLabelNotFound is returned when the id does not resolve to a
// row owned by userID.
func (r *LabelRepo) UpdateName(ctx context.Context, id, userID uint64, name string) (*model.Label, error) {
	if _, err := r.GetByIDAndOwner(ctx, id, userID); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE "+r.table+" SET name = ? WHERE id = ? AND user_id = ?", name, id, userID); err != nil {
		return nil, err
	}
	return r.getByID(ctx, id)
}

// Delete removes a label and its junction rows in one transaction.
// Journal entries that referenced it are left intact; their aggregate
// reads simply omit the vanished label. The deleted row is returned
// for the response body.
func (r *LabelRepo) Delete(ctx context.Context, id, userID uint64) (*model.Label, error) {
	l, err := r.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+r.junction+" WHERE "+r.fkColumn+" = ?", id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+r.table+" WHERE id = ? AND user_id = ?", id, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return l, nil
}
