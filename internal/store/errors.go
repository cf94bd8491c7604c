package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/huddle/internal/models"
)

// RecoverableError is an alias for models.RecoverableError.
type RecoverableError = models.RecoverableError

// ErrNotFound is matched by every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing row.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}
func (e *NotFoundError) ErrorCode() string { return "NOT_FOUND" }
func (e *NotFoundError) Context() map[string]string {
	return map[string]string{
		"entity": e.Entity,
		"id":     e.ID,
	}
}
func (e *NotFoundError) SuggestedAction() string {
	return fmt.Sprintf("list %ss to find a valid id", e.Entity)
}
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// notFoundOr maps sql.ErrNoRows to a NotFoundError and wraps anything else.
func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("failed to query %s: %w", entity, err)
}
