package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")

	// ErrOverlap is returned when reservations_no_overlap rejects an insert
	ErrOverlap = errors.New("reservation overlaps an existing booking")

	// ErrSerialization is returned when a serializable transaction loses a race
	ErrSerialization = errors.New("concurrent update, transaction aborted")

	// ErrForeignKey is returned when a row is still referenced elsewhere
	ErrForeignKey = errors.New("record is referenced by other records")

	// ErrNotFound is returned by writes that matched no row
	ErrNotFound = errors.New("record not found")
)

// Postgres SQLSTATE codes we translate
const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// classify maps driver errors onto the package sentinels, keeping the
// original error in the chain. Other errors pass through wrapped with op.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrDuplicate, pqErr.Constraint)
		case pqExclusionViolation:
			return fmt.Errorf("%s: %w", op, ErrOverlap)
		case pqSerializationFailure, pqDeadlockDetected:
			return fmt.Errorf("%s: %w", op, ErrSerialization)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrForeignKey, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func expectOneRow(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
