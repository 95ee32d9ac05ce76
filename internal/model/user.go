package model

import "time"

// User represents an application user record as stored in the
// `users` table. The password hash and reset-token fields are never
// serialized; handlers that need to expose a user build a response
// type with only the public fields.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Email            – unique email address (stored lowercase).
//  Name             – display name shown in the UI.
//  PasswordHash     – bcrypt hashed password.
//  ResetToken       – pending password-reset token (null when none).
//  ResetTokenExpiry – expiry of the pending reset token.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64     `json:"id"`         // users.id
	Email            string     `json:"email"`      // users.email
	Name             string     `json:"name"`       // users.name
	PasswordHash     string     `json:"-"`          // users.password_hash
	ResetToken       *string    `json:"-"`          // users.reset_token (nullable)
	ResetTokenExpiry *time.Time `json:"-"`          // users.reset_token_expiry (nullable)
	CreatedAt        time.Time  `json:"created_at"` // users.created_at
	UpdatedAt        time.Time  `json:"updated_at"` // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user; only the SHA-256 hash of the token
// value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
