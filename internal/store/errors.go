// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Typed failures surfaced by the taxonomy stores. These are logical, not
// infrastructural, so the stores never retry; handlers translate them into
// status codes.
var (
	// ErrNotFound means a referenced id or slug does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique constraint was violated, either anticipated
	// or raised by PostgreSQL when two writers race.
	ErrConflict = errors.New("conflict")
	// ErrIntegrity means the operation would break a relational invariant,
	// such as pointing a guideline at a missing category.
	ErrIntegrity = errors.New("integrity violation")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// PostgreSQL SQLSTATE codes the stores care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps PostgreSQL constraint failures onto the typed error
// taxonomy: unique violations become ErrConflict, foreign key violations
// ErrIntegrity. Anything else passes through unchanged. This is the last
// line of defense — races the slug resolver could not anticipate land here
// and must never surface as an untyped internal error.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, ErrIntegrity)
		}
	}
	return err
}
