package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Typed failures surfaced to controllers; middlewares.ErrorHandler maps them
// to HTTP statuses. Never coerced into generic errors.
var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicateConfig         = errors.New("an active due-date config already exists for this scope")
	ErrDuplicateDocumentNumber = errors.New("document number already in use")
	ErrDuplicateOurNumber      = errors.New("our number already in use")
	ErrInvalidTransition       = errors.New("invalid title state transition")
	ErrValidation              = errors.New("validation failed")
)

func notFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
}

func invalidTransition(titleID uint, from, to string) error {
	return fmt.Errorf("title %d: %s -> %s: %w", titleID, from, to, ErrInvalidTransition)
}

func validationErr(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

// lockForUpdate adds SELECT ... FOR UPDATE row locking on postgres. SQLite
// (used in tests) has no row locks and rejects the clause; its single-writer
// model makes the lock redundant there anyway.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// isUniqueViolation detects unique-index violations across the drivers we
// run against (postgres in production, sqlite in tests). Connect opens gorm
// with TranslateError, so gorm.ErrDuplicatedKey covers both; the message
// checks are a fallback for untranslated paths.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
