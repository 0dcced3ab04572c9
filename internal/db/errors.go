package db

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Error kinds surfaced by the repository layer. Handlers translate these
// into HTTP statuses; everything else is treated as an internal failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("invalid input")
	ErrDependency = errors.New("referenced entity not found")
)

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

func conflict(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrConflict)
}

func dependency(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrDependency)
}

// translateInsertErr maps driver-level unique violations to ErrConflict.
// The in-transaction existence check is only a fast path; the database
// constraint is the authoritative enforcement under concurrent creates.
func translateInsertErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", pqErr.Constraint, ErrConflict)
	}
	return err
}
