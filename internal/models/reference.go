// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Reference is a citation attached to a guideline (a paper, trial, or
// external resource). It is owned by its guideline and deleted with it.
type Reference struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	URL         *string   `json:"url,omitempty"`
	Description *string   `json:"description,omitempty"`
	GuidelineID uuid.UUID `json:"guideline_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
