// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"careguide/internal/cache"
	"careguide/internal/markdown"
	"careguide/internal/models"
	"careguide/internal/store"
)

// Guidelines groups the guideline resource handlers, including the revision
// listing and the cached slug lookup.
type Guidelines struct {
	guidelines *store.GuidelineStore
	revisions  *store.RevisionStore
	cache      *cache.GuidelineCache // may be nil when Valkey is not configured
}

// NewGuidelines creates the guideline handler group.
func NewGuidelines(guidelines *store.GuidelineStore, revisions *store.RevisionStore, guidelineCache *cache.GuidelineCache) *Guidelines {
	return &Guidelines{guidelines: guidelines, revisions: revisions, cache: guidelineCache}
}

// guidelineCreateRequest is the payload for creating a guideline.
type guidelineCreateRequest struct {
	Title      string                 `json:"title"`
	Content    string                 `json:"content"`
	CategoryID uuid.UUID              `json:"category_id"`
	TagIDs     []uuid.UUID            `json:"tag_ids,omitempty"`
	References []store.ReferenceInput `json:"references,omitempty"`
}

// guidelineUpdateRequest is a partial patch: absent fields are left
// unchanged. A present tag_ids reconciles the tag set; an empty array
// detaches all tags.
type guidelineUpdateRequest struct {
	Title      *string     `json:"title,omitempty"`
	Content    *string     `json:"content,omitempty"`
	CategoryID *uuid.UUID  `json:"category_id,omitempty"`
	TagIDs     []uuid.UUID `json:"tag_ids,omitempty"`
}

// detail loads a guideline with its relations and renders the Markdown
// content to HTML for the response.
func (h *Guidelines) detail(id uuid.UUID) (*models.Guideline, error) {
	g, err := h.guidelines.FindByID(id)
	if err != nil {
		return nil, err
	}
	rendered, err := markdown.ToHTML(g.Content)
	if err != nil {
		return nil, fmt.Errorf("render guideline content: %w", err)
	}
	g.ContentHTML = rendered
	return g, nil
}

// List returns guidelines, newest first, optionally filtered by the
// `category` and `tag` query parameters (UUIDs).
func (h *Guidelines) List(w http.ResponseWriter, r *http.Request) {
	var filter store.ListFilter
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, r, &store.ValidationError{Field: "category", Message: "must be a valid UUID"})
			return
		}
		filter.CategoryID = &id
	}
	if v := r.URL.Query().Get("tag"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, r, &store.ValidationError{Field: "tag", Message: "must be a valid UUID"})
			return
		}
		filter.TagID = &id
	}

	items, err := h.guidelines.List(filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Guideline{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create adds a guideline with its tag associations and references. The slug
// is derived from the title and deduplicated against all existing guidelines.
func (h *Guidelines) Create(w http.ResponseWriter, r *http.Request) {
	var req guidelineCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.CategoryID == uuid.Nil {
		writeError(w, r, &store.ValidationError{Field: "category_id", Message: "is required"})
		return
	}
	if err := validateGuidelineFields(&req.Title, &req.Content); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateReferences(req.References); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.guidelines.Create(store.CreateParams{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
		References: req.References,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	full, err := h.detail(g.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, full)
}

// Get returns a guideline by id with category, tags, references, and
// rendered content.
func (h *Guidelines) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.detail(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GetBySlug returns a guideline by slug. This is the public read path, so
// the serialized response is cached in Valkey; a hit skips the relational
// reads and the Markdown rendering entirely.
func (h *Guidelines) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	if h.cache != nil {
		if body, ok := h.cache.Get(r.Context(), slugParam); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	g, err := h.guidelines.FindBySlug(slugParam)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rendered, err := markdown.ToHTML(g.Content)
	if err != nil {
		writeError(w, r, fmt.Errorf("render guideline content: %w", err))
		return
	}
	g.ContentHTML = rendered

	body, err := json.Marshal(g)
	if err != nil {
		writeError(w, r, fmt.Errorf("marshal guideline: %w", err))
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), slugParam, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Update applies a partial patch. A content change appends a revision of the
// prior content; a present tag_ids reconciles the tag set in the same
// transaction.
func (h *Guidelines) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req guidelineUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateGuidelineFields(req.Title, req.Content); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.guidelines.Update(id, store.UpdateParams{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), g.Slug)
	}

	full, err := h.detail(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, full)
}

// Delete removes a guideline and its owned references, revisions, and tag
// associations. The tags themselves survive.
func (h *Guidelines) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Load first so the cached slug entry can be dropped, and so an unknown
	// id is a clean 404.
	g, err := h.guidelines.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guidelines.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), g.Slug)
	}
	w.WriteHeader(http.StatusNoContent)
}

// References returns the guideline's citations, oldest first.
func (h *Guidelines) References(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.guidelines.FindByID(id); err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.guidelines.ListReferences(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Reference{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Revisions returns the guideline's revision history, newest first. Each
// revision snapshots the content that was superseded, not the current one.
func (h *Guidelines) Revisions(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.guidelines.FindByID(id); err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.revisions.ListByGuideline(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Revision{}
	}
	writeJSON(w, http.StatusOK, items)
}
