// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists the guideline taxonomy (categories, guidelines,
// tags, references, revisions) in PostgreSQL. Multi-step operations —
// cascading deletes, content updates that append a revision, tag
// reconciliation — run inside a single transaction so a failure partway
// through rolls back entirely.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"careguide/internal/slug"
)

// querier is the subset of *sql.DB and *sql.Tx the store helpers share, so
// they can run inside or outside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// baseSlugFor validates a display name and derives its base slug.
func baseSlugFor(field, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	base := slug.Generate(name)
	if base == "" {
		return "", &ValidationError{Field: field, Message: "must contain at least one letter or digit"}
	}
	return base, nil
}

// resolveSlug assigns a slug unique among the rows of table. Uniqueness is
// scoped globally per entity type, matching the schema's unique indexes: the
// resolver is seeded with every persisted slug that could collide with base.
// The unique index remains the final authority when two writers race.
func resolveSlug(q querier, table, base string) (string, error) {
	rows, err := q.Query(
		`SELECT slug FROM `+table+` WHERE slug = $1 OR slug LIKE $1 || '-%'`,
		base,
	)
	if err != nil {
		return "", fmt.Errorf("load %s slugs: %w", table, err)
	}
	defer rows.Close()

	r := slug.NewResolver()
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return "", fmt.Errorf("scan %s slug: %w", table, err)
		}
		r.MarkTaken(s)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return r.Resolve(base), nil
}
