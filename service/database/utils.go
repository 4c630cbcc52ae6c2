package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres error codes worth recognizing at the loader boundary.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateError maps driver-level constraint errors onto readable ones.
// Anything else passes through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return fmt.Errorf("unique constraint %s violated: %w", pqErr.Constraint, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("foreign key constraint %s violated: %w", pqErr.Constraint, err)
		}
	}
	return err
}
