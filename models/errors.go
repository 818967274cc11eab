package models

import "errors"

var (
	// ErrNotFound covers missing articles and soft-deleted ones hidden from readers.
	ErrNotFound = errors.New("article not found")
	// ErrBlocked means the article exists but is administratively restricted.
	ErrBlocked = errors.New("article is blocked")
	// ErrTypeMismatch is returned by variant-specific operations on another variant.
	ErrTypeMismatch = errors.New("article type mismatch")

	ErrBoardNotFound   = errors.New("board not found")
	ErrKeywordNotFound = errors.New("keyword not found")

	// ErrConflict is a retryable version mismatch or uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCursor means the cursor id does not resolve to a visible article.
	ErrInvalidCursor = errors.New("invalid cursor")

	ErrValidation = errors.New("validation failed")
)
