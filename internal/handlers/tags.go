// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"careguide/internal/cache"
	"careguide/internal/models"
	"careguide/internal/store"
)

// Tags groups the tag resource handlers.
type Tags struct {
	tags  *store.TagStore
	cache *cache.GuidelineCache // may be nil when Valkey is not configured
}

// NewTags creates the tag handler group. The guideline cache is invalidated
// on mutations because guideline detail responses embed their tags.
func NewTags(tags *store.TagStore, guidelineCache *cache.GuidelineCache) *Tags {
	return &Tags{tags: tags, cache: guidelineCache}
}

// tagRequest is the create/update payload for a tag.
type tagRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// List returns all tags with their guideline association counts.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.tags.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create adds a new tag. Tag names are unique; a duplicate is a 409.
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateName(req.Name, req.Description); err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := h.tags.Create(req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// Get returns a single tag by id.
func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tag, err := h.tags.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// GetBySlug returns a single tag by its slug.
func (h *Tags) GetBySlug(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Update renames a tag or changes its description. The slug is kept.
func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateName(req.Name, req.Description); err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := h.tags.Update(id, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		// Cached guideline responses embed the old tag name.
		h.cache.InvalidateAll(r.Context())
	}
	writeJSON(w, http.StatusOK, tag)
}

// Delete removes a tag and clears its guideline associations. The guidelines
// themselves are untouched.
func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.tags.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		// Any cached guideline may have carried this tag.
		h.cache.InvalidateAll(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}
