// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL is unavailable. Handlers run
// against real stores; the guideline cache is nil, exercising the
// degraded-cache path.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"careguide/internal/database"
	"careguide/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "careguide")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "careguide")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds the stores and handler groups for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Categories *Categories
	Guidelines *Guidelines
	Tags       *Tags

	categoryStore  *store.CategoryStore
	guidelineStore *store.GuidelineStore
	tagStore       *store.TagStore
	revisionStore  *store.RevisionStore
}

// newTestEnv creates handler groups backed by real stores and a nil cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	categoryStore := store.NewCategoryStore(db)
	guidelineStore := store.NewGuidelineStore(db)
	tagStore := store.NewTagStore(db)
	revisionStore := store.NewRevisionStore(db)

	return &testEnv{
		DB:             db,
		Categories:     NewCategories(categoryStore, nil),
		Guidelines:     NewGuidelines(guidelineStore, revisionStore, nil),
		Tags:           NewTags(tagStore, nil),
		categoryStore:  categoryStore,
		guidelineStore: guidelineStore,
		tagStore:       tagStore,
		revisionStore:  revisionStore,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request carrying a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody decodes a recorded JSON response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

// wantStatus fails the test when the recorded status does not match.
func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, want, strings.TrimSpace(rec.Body.String()))
	}
}

// cleanCategories removes test categories and their cascaded rows by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec(`DELETE FROM guideline_references WHERE guideline_id IN
			(SELECT g.id FROM guidelines g JOIN categories c ON g.category_id = c.id WHERE c.slug = $1)`, s)
		db.Exec(`DELETE FROM revisions WHERE guideline_id IN
			(SELECT g.id FROM guidelines g JOIN categories c ON g.category_id = c.id WHERE c.slug = $1)`, s)
		db.Exec(`DELETE FROM guideline_tags WHERE guideline_id IN
			(SELECT g.id FROM guidelines g JOIN categories c ON g.category_id = c.id WHERE c.slug = $1)`, s)
		db.Exec(`DELETE FROM guidelines WHERE category_id IN (SELECT id FROM categories WHERE slug = $1)`, s)
		db.Exec(`DELETE FROM categories WHERE slug = $1`, s)
	}
}

// cleanTags removes test tags and their associations by slug.
func cleanTags(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec(`DELETE FROM guideline_tags WHERE tag_id IN (SELECT id FROM tags WHERE slug = $1)`, s)
		db.Exec(`DELETE FROM tags WHERE slug = $1`, s)
	}
}
