package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Specific errors for storage operations
var (
	ErrNotFound            = errors.New("entity not found")
	ErrEmailExists         = errors.New("email already exists")
	ErrConstraintViolation = errors.New("constraint violation")
)

// classify keeps the driver error inspectable while tagging the constraint
// failures callers branch on.
func classify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return fmt.Errorf("database error: %w", err)
	}
	if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(sqliteErr.Error(), "users.email") {
		return fmt.Errorf("%w: %w", ErrEmailExists, err)
	}
	return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
}
