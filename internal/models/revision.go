// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Revision is an immutable snapshot of a guideline's content as it existed
// immediately before an edit. Revisions are never updated or individually
// deleted; they are removed only when their guideline is deleted. Position is
// a monotonic insertion sequence and orders the history where timestamps tie.
type Revision struct {
	ID          uuid.UUID `json:"id"`
	GuidelineID uuid.UUID `json:"guideline_id"`
	Content     string    `json:"content"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}
