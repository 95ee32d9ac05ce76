package model

import "time"

// Label is a user-owned name attached to journal entries. Categories
// and tags have identical shape and rules and differ only in which
// table they live in (`categories` or `tags`), so both are represented
// by this one type. A label belongs to exactly one user; deleting a
// label removes its junction rows but leaves referencing entries
// intact.
type Label struct {
	ID        uint64    `json:"id"`         // categories.id / tags.id
	UserID    uint64    `json:"user_id"`    // owning user
	Name      string    `json:"name"`       // display name
	CreatedAt time.Time `json:"created_at"` // row creation timestamp
}
