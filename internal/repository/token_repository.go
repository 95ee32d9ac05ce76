package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists refresh-token sessions. Only the SHA-256 hash of
// a token ever reaches this layer; the raw value stays with the
// client. Revocation is a timestamp, never a row delete, so a token's
// history survives for auditing.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a freshly minted session for the user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a presented token hash to its user. An
// unknown, revoked or expired token yields ErrTokenInvalid; the three
// cases are indistinguishable to the caller on purpose.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrTokenInvalid
		}
		return 0, err
	}
	if !refreshUsable(expiresAt, revokedAt, time.Now().UTC()) {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}

// refreshUsable decides whether a stored session is still live at the
// given instant.
func refreshUsable(expiresAt time.Time, revokedAt sql.NullTime, now time.Time) bool {
	if revokedAt.Valid {
		return false
	}
	return !now.After(expiresAt)
}

// RevokeByHash kills one session. Revoking an already-revoked or
// unknown hash is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser kills every live session of the user, used on
// logout-everywhere and after password changes.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
