package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors, reported to the user before any store mutation.
	ErrBlankTitle     = errors.New("title must not be blank")
	ErrNoUserSelected = errors.New("no user selected")
	ErrBlankTagName   = errors.New("tag name must not be blank")

	// ErrDuplicateTagName is returned when renaming a tag onto another
	// tag's name.
	ErrDuplicateTagName = errors.New("tag name already in use")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
