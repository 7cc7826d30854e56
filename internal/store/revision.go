// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"careguide/internal/models"
)

const revisionColumns = `id, guideline_id, content, position, created_at`

// RevisionStore provides access to the append-only revision log. There are
// no update or single-delete operations: a revision is written once and
// removed only by its guideline's cascade.
type RevisionStore struct {
	db *sql.DB
}

// NewRevisionStore returns a new RevisionStore.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// scanRevision scans a revisions row into a Revision struct.
func scanRevision(scanner interface{ Scan(...any) error }) (*models.Revision, error) {
	var r models.Revision
	err := scanner.Scan(&r.ID, &r.GuidelineID, &r.Content, &r.Position, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Append records a guideline's content as it existed immediately before an
// update, timestamped at append time. GuidelineStore.Update calls the same
// insert inside its own transaction so the snapshot and the update commit
// or roll back together.
func (s *RevisionStore) Append(guidelineID uuid.UUID, priorContent string) (*models.Revision, error) {
	if err := guidelineExists(s.db, guidelineID); err != nil {
		return nil, err
	}
	return appendRevision(s.db, guidelineID, priorContent)
}

// ListByGuideline returns a guideline's revisions, newest first. Ordering is
// by the insertion sequence, which stays deterministic even when two appends
// share a timestamp.
func (s *RevisionStore) ListByGuideline(guidelineID uuid.UUID) ([]models.Revision, error) {
	rows, err := s.db.Query(`
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE guideline_id = $1
		ORDER BY position DESC
	`, guidelineID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *r)
	}
	return revisions, rows.Err()
}

// Count returns the number of revisions recorded for a guideline.
func (s *RevisionStore) Count(guidelineID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM revisions WHERE guideline_id = $1
	`, guidelineID).Scan(&count)
	return count, err
}

// appendRevision inserts a revision row using the caller's transaction or
// connection.
func appendRevision(q querier, guidelineID uuid.UUID, priorContent string) (*models.Revision, error) {
	row := q.QueryRow(`
		INSERT INTO revisions (guideline_id, content)
		VALUES ($1, $2)
		RETURNING `+revisionColumns,
		guidelineID, priorContent,
	)
	r, err := scanRevision(row)
	if err != nil {
		return nil, fmt.Errorf("append revision: %w", translateError(err))
	}
	return r, nil
}
