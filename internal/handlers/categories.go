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

// Categories groups the category resource handlers.
type Categories struct {
	categories *store.CategoryStore
	cache      *cache.GuidelineCache // may be nil when Valkey is not configured
}

// NewCategories creates the category handler group. The guideline cache is
// invalidated on mutations because guideline detail responses embed their
// category.
func NewCategories(categories *store.CategoryStore, guidelineCache *cache.GuidelineCache) *Categories {
	return &Categories{categories: categories, cache: guidelineCache}
}

// categoryRequest is the create/update payload for a category.
type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// List returns all categories with their guideline counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create adds a new category. The slug is derived from the name and
// deduplicated against existing categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateName(req.Name, req.Description); err != nil {
		writeError(w, r, err)
		return
	}

	cat, err := h.categories.Create(req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// Get returns a single category by id.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cat, err := h.categories.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// GetBySlug returns a single category by its slug.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	cat, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Update renames a category or changes its description. The slug is kept.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateName(req.Name, req.Description); err != nil {
		writeError(w, r, err)
		return
	}

	cat, err := h.categories.Update(id, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		// Cached guideline responses embed the old category name.
		h.cache.InvalidateAll(r.Context())
	}
	writeJSON(w, http.StatusOK, cat)
}

// Delete removes a category and cascades through its guidelines, their
// references, revisions, and tag associations.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.categories.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		// The cascade may have removed any number of cached guidelines.
		h.cache.InvalidateAll(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}
