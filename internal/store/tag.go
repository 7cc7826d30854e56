// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"careguide/internal/models"
)

const tagColumns = `id, name, slug, description, created_at, updated_at`

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// scanTag scans a row into a Tag struct.
func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tags ordered by name, with association counts.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.description, t.created_at, t.updated_at,
		       COUNT(gt.guideline_id) AS guideline_count
		FROM tags t
		LEFT JOIN guideline_tags gt ON gt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		err := rows.Scan(
			&t.ID, &t.Name, &t.Slug, &t.Description,
			&t.CreatedAt, &t.UpdatedAt, &t.GuidelineCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID.
func (s *TagStore) FindByID(id uuid.UUID) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a tag by its slug.
func (s *TagStore) FindBySlug(slugParam string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE slug = $1`, slugParam)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %q: %w", slugParam, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// FindByName retrieves a tag by its exact name. Used by the importer to map
// tag names onto IDs.
func (s *TagStore) FindByName(name string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE name = $1`, name)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return t, nil
}

// Create inserts a new tag. Both the name and the derived slug are globally
// unique; a duplicate name surfaces as ErrConflict from the unique index.
func (s *TagStore) Create(name string, description *string) (*models.Tag, error) {
	base, err := baseSlugFor("name", name)
	if err != nil {
		return nil, err
	}

	assigned, err := resolveSlug(s.db, "tags", base)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO tags (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+tagColumns,
		strings.TrimSpace(name), assigned, description,
	)
	t, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", translateError(err))
	}
	return t, nil
}

// Update modifies a tag's name and description. The slug stays as assigned
// at creation; renaming onto an existing name surfaces as ErrConflict.
func (s *TagStore) Update(id uuid.UUID, name string, description *string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}

	row := s.db.QueryRow(`
		UPDATE tags
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+tagColumns,
		strings.TrimSpace(name), description, id,
	)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", translateError(err))
	}
	return t, nil
}

// Delete removes a tag and its associations in one transaction. Deleting a
// tag never cascades further: guidelines, references, and revisions that
// carried the tag are untouched.
func (s *TagStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM guideline_tags WHERE tag_id = $1`, id); err != nil {
		return fmt.Errorf("clear tag associations: %w", translateError(err))
	}

	res, err := tx.Exec(`DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", translateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}
