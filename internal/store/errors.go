// Package store is the persistence layer: the identity directory and the
// recipe, instruction and ingredient tables. Stores receive the *gorm.DB
// handle through their constructors and never keep one globally.
//
// Unique indexes are the final arbiter for uniqueness; callers may probe first
// for a friendlier message, but a losing concurrent write still surfaces here
// as apperror.KindConflict.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate maps driver errors onto the core error kinds. notFound is used for
// missing rows and broken parent references, conflict for unique violations.
func translate(err error, op, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), isForeignKeyViolation(err):
		return apperror.NotFound(notFound).Wrap(err)
	case isUniqueViolation(err):
		return apperror.Conflict(conflict).Wrap(err)
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// Page bounds a list query.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}
