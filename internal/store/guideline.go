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

const guidelineColumns = `id, title, slug, content, category_id, created_at, updated_at`

// GuidelineStore manages guidelines and their relations: the owning
// category, attached tags, references, and content revisions.
type GuidelineStore struct {
	db *sql.DB
}

// NewGuidelineStore returns a new GuidelineStore.
func NewGuidelineStore(db *sql.DB) *GuidelineStore {
	return &GuidelineStore{db: db}
}

// ReferenceInput describes a citation supplied on guideline creation.
type ReferenceInput struct {
	Title       string  `json:"title"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateParams carries everything needed to create a guideline. TagIDs and
// References may be empty.
type CreateParams struct {
	Title      string
	Content    string
	CategoryID uuid.UUID
	TagIDs     []uuid.UUID
	References []ReferenceInput
}

// UpdateParams is a partial patch: nil fields are left unchanged. A non-nil
// TagIDs reconciles the tag set (an empty non-nil slice detaches all tags).
// The slug is assigned at creation and never patched.
type UpdateParams struct {
	Title      *string
	Content    *string
	CategoryID *uuid.UUID
	TagIDs     []uuid.UUID
}

// scanGuideline scans a guidelines row into a Guideline struct.
func scanGuideline(scanner interface{ Scan(...any) error }) (*models.Guideline, error) {
	var g models.Guideline
	err := scanner.Scan(
		&g.ID, &g.Title, &g.Slug, &g.Content, &g.CategoryID,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a guideline with its tag associations and references in one
// transaction. The category must exist; the slug is derived from the title
// and resolved against all persisted guidelines. A slug race lost to a
// concurrent writer surfaces as ErrConflict.
func (s *GuidelineStore) Create(p CreateParams) (*models.Guideline, error) {
	base, err := baseSlugFor("title", p.Title)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := categoryExists(tx, p.CategoryID); err != nil {
		return nil, err
	}

	assigned, err := resolveSlug(tx, "guidelines", base)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(`
		INSERT INTO guidelines (title, slug, content, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+guidelineColumns,
		strings.TrimSpace(p.Title), assigned, p.Content, p.CategoryID,
	)
	g, err := scanGuideline(row)
	if err != nil {
		return nil, fmt.Errorf("create guideline: %w", translateError(err))
	}

	if _, err := reconcileTags(tx, g.ID, p.TagIDs); err != nil {
		return nil, err
	}

	for _, ref := range p.References {
		if strings.TrimSpace(ref.Title) == "" {
			return nil, &ValidationError{Field: "references.title", Message: "is required"}
		}
		_, err := tx.Exec(`
			INSERT INTO guideline_references (title, url, description, guideline_id)
			VALUES ($1, $2, $3, $4)
		`, strings.TrimSpace(ref.Title), ref.URL, ref.Description, g.ID)
		if err != nil {
			return nil, fmt.Errorf("create reference: %w", translateError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create guideline: %w", err)
	}
	return g, nil
}

// FindByID retrieves a guideline with its category, tags, and references.
func (s *GuidelineStore) FindByID(id uuid.UUID) (*models.Guideline, error) {
	row := s.db.QueryRow(`SELECT `+guidelineColumns+` FROM guidelines WHERE id = $1`, id)
	g, err := scanGuideline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guideline %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find guideline by id: %w", err)
	}
	if err := s.loadRelations(g); err != nil {
		return nil, err
	}
	return g, nil
}

// FindBySlug retrieves a guideline by slug with its category, tags, and
// references.
func (s *GuidelineStore) FindBySlug(slugParam string) (*models.Guideline, error) {
	row := s.db.QueryRow(`SELECT `+guidelineColumns+` FROM guidelines WHERE slug = $1`, slugParam)
	g, err := scanGuideline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guideline %q: %w", slugParam, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find guideline by slug: %w", err)
	}
	if err := s.loadRelations(g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListFilter narrows a guideline listing. Nil fields mean no filter.
type ListFilter struct {
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
}

// List returns guidelines matching the filter, newest first, without
// relation fields loaded.
func (s *GuidelineStore) List(f ListFilter) ([]models.Guideline, error) {
	query := `
		SELECT g.id, g.title, g.slug, g.content, g.category_id,
		       g.created_at, g.updated_at
		FROM guidelines g`
	var args []any
	var where []string

	if f.TagID != nil {
		query += ` JOIN guideline_tags gt ON gt.guideline_id = g.id`
		args = append(args, *f.TagID)
		where = append(where, fmt.Sprintf("gt.tag_id = $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("g.category_id = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY g.created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list guidelines: %w", err)
	}
	defer rows.Close()

	var items []models.Guideline
	for rows.Next() {
		g, err := scanGuideline(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guideline: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// Update applies a partial patch in one transaction. A change to the content
// field first appends a revision holding the content being superseded — the
// snapshot records the previous state, not the new one. A non-nil TagIDs
// reconciles the tag set in the same transaction, so a failed reconcile
// rolls back the content change and its revision.
func (s *GuidelineStore) Update(id uuid.UUID, p UpdateParams) (*models.Guideline, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the row for the duration of the transaction so the revision
	// snapshot and the update see the same prior state.
	current, err := scanGuideline(tx.QueryRow(
		`SELECT `+guidelineColumns+` FROM guidelines WHERE id = $1 FOR UPDATE`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guideline %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load guideline for update: %w", err)
	}

	title := current.Title
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
	}
	content := current.Content
	if p.Content != nil {
		content = *p.Content
	}
	categoryID := current.CategoryID
	if p.CategoryID != nil {
		if err := categoryExists(tx, *p.CategoryID); err != nil {
			return nil, err
		}
		categoryID = *p.CategoryID
	}

	if p.Content != nil && *p.Content != current.Content {
		if _, err := appendRevision(tx, id, current.Content); err != nil {
			return nil, err
		}
	}

	row := tx.QueryRow(`
		UPDATE guidelines
		SET title = $1, content = $2, category_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+guidelineColumns,
		title, content, categoryID, id,
	)
	g, err := scanGuideline(row)
	if err != nil {
		return nil, fmt.Errorf("update guideline: %w", translateError(err))
	}

	if p.TagIDs != nil {
		if _, err := reconcileTags(tx, id, p.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update guideline: %w", err)
	}
	return g, nil
}

// ReconcileTags moves the guideline's tag set to exactly desiredTagIDs,
// applying the minimal connect/disconnect delta in one transaction.
// Reconciling twice with the same set performs zero writes the second time.
func (s *GuidelineStore) ReconcileTags(id uuid.UUID, desiredTagIDs []uuid.UUID) (TagDelta, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return TagDelta{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := guidelineExists(tx, id); err != nil {
		return TagDelta{}, err
	}

	delta, err := reconcileTags(tx, id, desiredTagIDs)
	if err != nil {
		return TagDelta{}, err
	}

	if err := tx.Commit(); err != nil {
		return TagDelta{}, fmt.Errorf("commit reconcile tags: %w", err)
	}
	return delta, nil
}

// Delete removes a guideline and its owned children in one transaction:
// references and revisions are deleted, tag associations are cleared (the
// tags themselves survive), then the guideline row goes. Children before
// parents, mirroring the foreign-key dependency order.
func (s *GuidelineStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		desc  string
		query string
	}{
		{"delete references", `DELETE FROM guideline_references WHERE guideline_id = $1`},
		{"delete revisions", `DELETE FROM revisions WHERE guideline_id = $1`},
		{"clear tag associations", `DELETE FROM guideline_tags WHERE guideline_id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(step.query, id); err != nil {
			return fmt.Errorf("%s: %w", step.desc, translateError(err))
		}
	}

	res, err := tx.Exec(`DELETE FROM guidelines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guideline: %w", translateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete guideline: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("guideline %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// ListReferences returns the references attached to a guideline, oldest first.
func (s *GuidelineStore) ListReferences(id uuid.UUID) ([]models.Reference, error) {
	return loadReferences(s.db, id)
}

// loadRelations populates the category, tags, and references of g.
func (s *GuidelineStore) loadRelations(g *models.Guideline) error {
	cat, err := scanCategory(s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, g.CategoryID,
	))
	if err != nil {
		return fmt.Errorf("load guideline category: %w", err)
	}
	g.Category = cat

	tags, err := loadTags(s.db, g.ID)
	if err != nil {
		return err
	}
	g.Tags = tags

	refs, err := loadReferences(s.db, g.ID)
	if err != nil {
		return err
	}
	g.References = refs
	return nil
}

// reconcileTags computes and applies the connect/disconnect delta for a
// guideline inside the caller's transaction. Every tag to connect must
// exist, otherwise ErrNotFound.
func reconcileTags(q querier, guidelineID uuid.UUID, desired []uuid.UUID) (TagDelta, error) {
	current, err := currentTagIDs(q, guidelineID)
	if err != nil {
		return TagDelta{}, err
	}

	toConnect, toDisconnect := diffTagSets(current, desired)

	for _, tagID := range toConnect {
		if err := tagExists(q, tagID); err != nil {
			return TagDelta{}, err
		}
		_, err := q.Exec(`
			INSERT INTO guideline_tags (guideline_id, tag_id) VALUES ($1, $2)
		`, guidelineID, tagID)
		if err != nil {
			return TagDelta{}, fmt.Errorf("connect tag %s: %w", tagID, translateError(err))
		}
	}
	for _, tagID := range toDisconnect {
		_, err := q.Exec(`
			DELETE FROM guideline_tags WHERE guideline_id = $1 AND tag_id = $2
		`, guidelineID, tagID)
		if err != nil {
			return TagDelta{}, fmt.Errorf("disconnect tag %s: %w", tagID, translateError(err))
		}
	}

	return TagDelta{Connected: len(toConnect), Disconnected: len(toDisconnect)}, nil
}

// currentTagIDs returns the tag IDs attached to a guideline.
func currentTagIDs(q querier, guidelineID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(`SELECT tag_id FROM guideline_tags WHERE guideline_id = $1`, guidelineID)
	if err != nil {
		return nil, fmt.Errorf("load tag associations: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tag association: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// loadTags returns the tags attached to a guideline, ordered by name.
func loadTags(q querier, guidelineID uuid.UUID) ([]models.Tag, error) {
	rows, err := q.Query(`
		SELECT t.id, t.name, t.slug, t.description, t.created_at, t.updated_at
		FROM tags t
		JOIN guideline_tags gt ON gt.tag_id = t.id
		WHERE gt.guideline_id = $1
		ORDER BY t.name
	`, guidelineID)
	if err != nil {
		return nil, fmt.Errorf("load guideline tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan guideline tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// loadReferences returns the references attached to a guideline, oldest first.
func loadReferences(q querier, guidelineID uuid.UUID) ([]models.Reference, error) {
	rows, err := q.Query(`
		SELECT id, title, url, description, guideline_id, created_at, updated_at
		FROM guideline_references
		WHERE guideline_id = $1
		ORDER BY created_at
	`, guidelineID)
	if err != nil {
		return nil, fmt.Errorf("load guideline references: %w", err)
	}
	defer rows.Close()

	var refs []models.Reference
	for rows.Next() {
		var r models.Reference
		err := rows.Scan(&r.ID, &r.Title, &r.URL, &r.Description, &r.GuidelineID, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// categoryExists fails with ErrNotFound if the category id is unknown.
func categoryExists(q querier, id uuid.UUID) error {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}

// guidelineExists fails with ErrNotFound if the guideline id is unknown.
func guidelineExists(q querier, id uuid.UUID) error {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM guidelines WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check guideline: %w", err)
	}
	if !exists {
		return fmt.Errorf("guideline %s: %w", id, ErrNotFound)
	}
	return nil
}

// tagExists fails with ErrNotFound if the tag id is unknown.
func tagExists(q querier, id uuid.UUID) error {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM tags WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check tag: %w", err)
	}
	if !exists {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	return nil
}
