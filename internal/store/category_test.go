package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCategoryCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	name := "Cardiology " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, "cardiology-"+name[11:]) })

	desc := "Heart conditions"
	created, err := s.Create(name, &desc)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Name != name {
		t.Errorf("name: got %q, want %q", created.Name, name)
	}
	if created.Slug == "" {
		t.Error("expected derived slug")
	}
	if created.Description == nil || *created.Description != desc {
		t.Errorf("description: got %v, want %q", created.Description, desc)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Slug != created.Slug {
		t.Errorf("slug: got %q, want %q", found.Slug, created.Slug)
	}

	bySlug, err := s.FindBySlug(created.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Errorf("FindBySlug id: got %s, want %s", bySlug.ID, created.ID)
	}
}

func TestCategoryCreateEmptyName(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	_, err := s.Create("   ", nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "name" {
		t.Errorf("field: got %q, want %q", ve.Field, "name")
	}
}

// TestCategorySlugCollision verifies that two categories with colliding
// names get "-2" suffixed on the second, matching the resolver numbering.
func TestCategorySlugCollision(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	suffix := uuid.NewString()[:8]
	name := "Primary Care " + suffix
	base := "primary-care-" + suffix
	t.Cleanup(func() { cleanCategories(t, db, base, base+"-2") })

	first, err := s.Create(name, nil)
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	second, err := s.Create(name, nil)
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	if first.Slug != base {
		t.Errorf("first slug: got %q, want %q", first.Slug, base)
	}
	if second.Slug != base+"-2" {
		t.Errorf("second slug: got %q, want %q", second.Slug, base+"-2")
	}
}

// TestCategoryUpdateKeepsSlug verifies that renaming a category does not
// reassign its slug.
func TestCategoryUpdateKeepsSlug(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	name := "Neurology " + uuid.NewString()[:8]
	created, err := s.Create(name, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, created.Slug) })

	updated, err := s.Update(created.ID, "Renamed "+name, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != created.Slug {
		t.Errorf("slug changed on update: got %q, want %q", updated.Slug, created.Slug)
	}
	if updated.Name != "Renamed "+name {
		t.Errorf("name: got %q, want %q", updated.Name, "Renamed "+name)
	}
}

// TestCategoryDeleteCascade builds a category with two guidelines, each with
// one reference, one revision, and a tag, then verifies the cascade: no
// guidelines, references, or revisions survive, while the tag does with its
// association count back at zero.
func TestCategoryDeleteCascade(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)
	guidelines := NewGuidelineStore(db)
	tags := NewTagStore(db)
	revisions := NewRevisionStore(db)

	suffix := uuid.NewString()[:8]
	cat, err := categories.Create("Cascade "+suffix, nil)
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, cat.Slug) })

	tag, err := tags.Create("cascade-tag-"+suffix, nil)
	if err != nil {
		t.Fatalf("Create tag: %v", err)
	}
	t.Cleanup(func() { cleanTags(t, db, tag.Slug) })

	url := "https://example.org/trial"
	for _, title := range []string{"First " + suffix, "Second " + suffix} {
		g, err := guidelines.Create(CreateParams{
			Title:      title,
			Content:    "initial content",
			CategoryID: cat.ID,
			TagIDs:     []uuid.UUID{tag.ID},
			References: []ReferenceInput{{Title: "Trial", URL: &url}},
		})
		if err != nil {
			t.Fatalf("Create guideline %q: %v", title, err)
		}
		if _, err := revisions.Append(g.ID, "older content"); err != nil {
			t.Fatalf("Append revision: %v", err)
		}
	}

	if err := categories.Delete(cat.ID); err != nil {
		t.Fatalf("Delete category: %v", err)
	}

	if n := countRows(t, db, `SELECT COUNT(*) FROM guidelines WHERE category_id = $1`, cat.ID); n != 0 {
		t.Errorf("guidelines remaining: got %d, want 0", n)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM guideline_references r
		JOIN guidelines g ON r.guideline_id = g.id WHERE g.category_id = $1`, cat.ID); n != 0 {
		t.Errorf("references remaining: got %d, want 0", n)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM revisions r
		JOIN guidelines g ON r.guideline_id = g.id WHERE g.category_id = $1`, cat.ID); n != 0 {
		t.Errorf("revisions remaining: got %d, want 0", n)
	}

	// The tag itself survives with its associations cleared.
	survivor, err := tags.FindByID(tag.ID)
	if err != nil {
		t.Fatalf("tag should survive the cascade: %v", err)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM guideline_tags WHERE tag_id = $1`, survivor.ID); n != 0 {
		t.Errorf("tag associations remaining: got %d, want 0", n)
	}
}

func TestCategoryDeleteNotFound(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	err := s.Delete(uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryList(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)
	guidelines := NewGuidelineStore(db)

	suffix := uuid.NewString()[:8]
	cat, err := categories.Create("Listing "+suffix, nil)
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, cat.Slug) })

	if _, err := guidelines.Create(CreateParams{
		Title: "Counted " + suffix, Content: "body", CategoryID: cat.ID,
	}); err != nil {
		t.Fatalf("Create guideline: %v", err)
	}

	items, err := categories.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	found := false
	for _, c := range items {
		if c.ID == cat.ID {
			found = true
			if c.GuidelineCount != 1 {
				t.Errorf("guideline count: got %d, want 1", c.GuidelineCount)
			}
		}
	}
	if !found {
		t.Error("expected created category in list")
	}
}
