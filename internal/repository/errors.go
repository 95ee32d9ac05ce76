// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to HTTP statuses: a not-found sentinel becomes a 404, while
// ErrEmailExists becomes a 409 on registration.
package repository

import "errors"

// ErrEntryNotFound is returned when a journal entry does not exist,
// is soft-deleted, or belongs to a different user. All three cases
// are indistinguishable to the caller on purpose.
var ErrEntryNotFound = errors.New("entry not found")

// ErrLabelNotFound is returned when a category or tag cannot be found
// for the requesting user.
var ErrLabelNotFound = errors.New("label not found")

// ErrUserNotFound is returned when a user lookup yields no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registration hits the unique email
// constraint. Handlers should translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrTokenInvalid is returned when a refresh token is unknown, revoked
// or expired. The cases are deliberately indistinguishable; handlers
// answer 401 either way.
var ErrTokenInvalid = errors.New("invalid refresh token")
