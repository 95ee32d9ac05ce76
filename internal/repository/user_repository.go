package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell/internal/model"
	"github.com/inkwell-app/inkwell/internal/utils"
)

// UserRepo persists rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, email, name, password_hash, reset_token, reset_token_expiry, created_at, updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u           model.User
		resetToken  sql.NullString
		resetExpiry sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &resetToken, &resetExpiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if resetToken.Valid {
		s := resetToken.String
		u.ResetToken = &s
	}
	if resetExpiry.Valid {
		t := resetExpiry.Time
		u.ResetTokenExpiry = &t
	}
	return &u, nil
}

// Create inserts a user with a bcrypt-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, name, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash) VALUES (?,?,?)",
		email, name, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateName changes the display name.
func (r *UserRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePassword replaces the stored hash and clears any pending
// reset token so an old reset link cannot be replayed afterwards.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token=NULL, reset_token_expiry=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		hash, id)
	return err
}

// SetResetToken stores a password-reset token and its expiry on the
// user row, replacing any previous token.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, token string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token=?, reset_token_expiry=? WHERE id=?",
		token, expiry, id)
	return err
}
