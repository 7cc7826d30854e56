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

const categoryColumns = `id, name, slug, description, created_at, updated_at`

// CategoryStore manages guideline categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, with guideline counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
		       COUNT(g.id) AS guideline_count
		FROM categories c
		LEFT JOIN guidelines g ON g.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.CreatedAt, &c.UpdatedAt, &c.GuidelineCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by its slug.
func (s *CategoryStore) FindBySlug(slugParam string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slugParam)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", slugParam, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category, deriving its slug from the name. The slug
// scope is all persisted categories; a race on the unique index surfaces as
// ErrConflict.
func (s *CategoryStore) Create(name string, description *string) (*models.Category, error) {
	base, err := baseSlugFor("name", name)
	if err != nil {
		return nil, err
	}

	assigned, err := resolveSlug(s.db, "categories", base)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		strings.TrimSpace(name), assigned, description,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", translateError(err))
	}
	return c, nil
}

// Update modifies a category's name and description. The slug is assigned
// once at creation and deliberately left untouched here.
func (s *CategoryStore) Update(id uuid.UUID, name string, description *string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}

	row := s.db.QueryRow(`
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+categoryColumns,
		strings.TrimSpace(name), description, id,
	)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", translateError(err))
	}
	return c, nil
}

// Delete removes a category and everything beneath it in one transaction:
// references and revisions of its guidelines, the guidelines' tag
// associations (the tags themselves survive), the guidelines, and finally
// the category. Children go before parents so the cascade holds even
// without ON DELETE CASCADE in the schema; any failure rolls back the
// whole operation.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		desc  string
		query string
	}{
		{"delete references", `
			DELETE FROM guideline_references
			WHERE guideline_id IN (SELECT id FROM guidelines WHERE category_id = $1)`},
		{"delete revisions", `
			DELETE FROM revisions
			WHERE guideline_id IN (SELECT id FROM guidelines WHERE category_id = $1)`},
		{"clear tag associations", `
			DELETE FROM guideline_tags
			WHERE guideline_id IN (SELECT id FROM guidelines WHERE category_id = $1)`},
		{"delete guidelines", `DELETE FROM guidelines WHERE category_id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(step.query, id); err != nil {
			return fmt.Errorf("%s: %w", step.desc, translateError(err))
		}
	}

	res, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", translateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}
