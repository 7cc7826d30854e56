// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Guideline is a single treatment guideline. Content is Markdown (raw HTML
// from legacy imports passes through). The slug is assigned once at creation;
// edits touch title, content, category, and tags only.
type Guideline struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Virtual relation fields populated by detail reads.
	Category    *Category   `json:"category,omitempty"`
	Tags        []Tag       `json:"tags,omitempty"`
	References  []Reference `json:"references,omitempty"`
	ContentHTML string      `json:"content_html,omitempty"`
}
