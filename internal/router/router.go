// Package router sets up the HTTP routes and middleware chain for the
// careguide API. Resources follow a uniform CRUD layout with extra read
// paths for slug lookups and revision history.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"careguide/internal/handlers"
	"careguide/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(categories *handlers.Categories, guidelines *handlers.Guidelines, tags *handlers.Tags) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Post("/", categories.Create)
		r.Get("/slug/{slug}", categories.GetBySlug)
		r.Get("/{id}", categories.Get)
		r.Put("/{id}", categories.Update)
		r.Delete("/{id}", categories.Delete)
	})

	r.Route("/guidelines", func(r chi.Router) {
		r.Get("/", guidelines.List)
		r.Post("/", guidelines.Create)
		r.Get("/slug/{slug}", guidelines.GetBySlug)
		r.Get("/{id}", guidelines.Get)
		r.Put("/{id}", guidelines.Update)
		r.Delete("/{id}", guidelines.Delete)
		r.Get("/{id}/revisions", guidelines.Revisions)
		r.Get("/{id}/references", guidelines.References)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", tags.List)
		r.Post("/", tags.Create)
		r.Get("/slug/{slug}", tags.GetBySlug)
		r.Get("/{id}", tags.Get)
		r.Put("/{id}", tags.Update)
		r.Delete("/{id}", tags.Delete)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
