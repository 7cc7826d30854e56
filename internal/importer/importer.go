// Package importer loads an initial guideline taxonomy from a JSON file:
// categories with their guidelines, plus tags referenced by name. It is the
// bulk counterpart of the admin create endpoints and runs through the same
// stores, so slugs, tag associations, and constraints behave identically.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"careguide/internal/store"
)

// File is the root of an import document.
type File struct {
	Tags       []TagEntry      `json:"tags"`
	Categories []CategoryEntry `json:"categories"`
}

// TagEntry declares a tag up front so guidelines can reference it by name.
type TagEntry struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CategoryEntry is a category with its guidelines.
type CategoryEntry struct {
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Guidelines  []GuidelineEntry `json:"guidelines"`
}

// GuidelineEntry is a single guideline. Tags are listed explicitly by name;
// unknown names are an error rather than being created implicitly.
type GuidelineEntry struct {
	Title      string                 `json:"title"`
	Content    string                 `json:"content"`
	Tags       []string               `json:"tags,omitempty"`
	References []store.ReferenceInput `json:"references,omitempty"`
}

// Importer creates taxonomy entities from an import file.
type Importer struct {
	categories *store.CategoryStore
	guidelines *store.GuidelineStore
	tags       *store.TagStore
}

// New returns an Importer backed by the given stores.
func New(categories *store.CategoryStore, guidelines *store.GuidelineStore, tags *store.TagStore) *Importer {
	return &Importer{categories: categories, guidelines: guidelines, tags: tags}
}

// Run imports the taxonomy file at path. If any categories already exist the
// import is skipped entirely, making startup idempotent. Guideline slugs are
// resolved by the stores against all persisted rows, so two categories each
// holding an "Overview" end up as "overview" and "overview-2".
func (im *Importer) Run(path string) error {
	existing, err := im.categories.List()
	if err != nil {
		return fmt.Errorf("import check categories: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("taxonomy already populated, skipping import")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("import read file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("import parse file: %w", err)
	}

	tagIDs, err := im.createTags(file.Tags)
	if err != nil {
		return err
	}

	var guidelineCount int
	for _, ce := range file.Categories {
		cat, err := im.categories.Create(ce.Name, ce.Description)
		if err != nil {
			return fmt.Errorf("import category %q: %w", ce.Name, err)
		}

		for _, ge := range ce.Guidelines {
			ids, err := resolveTagNames(tagIDs, ge.Tags)
			if err != nil {
				return fmt.Errorf("import guideline %q: %w", ge.Title, err)
			}
			_, err = im.guidelines.Create(store.CreateParams{
				Title:      ge.Title,
				Content:    ge.Content,
				CategoryID: cat.ID,
				TagIDs:     ids,
				References: ge.References,
			})
			if err != nil {
				return fmt.Errorf("import guideline %q: %w", ge.Title, err)
			}
			guidelineCount++
		}
	}

	slog.Info("taxonomy imported",
		"categories", len(file.Categories),
		"guidelines", guidelineCount,
		"tags", len(file.Tags),
	)
	return nil
}

// createTags creates the declared tags, reusing any that already exist by
// name, and returns a name → id mapping.
func (im *Importer) createTags(entries []TagEntry) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(entries))
	for _, te := range entries {
		if _, done := ids[te.Name]; done {
			continue
		}
		existing, err := im.tags.FindByName(te.Name)
		if err == nil {
			ids[te.Name] = existing.ID
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("import tag %q: %w", te.Name, err)
		}
		tag, err := im.tags.Create(te.Name, te.Description)
		if err != nil {
			return nil, fmt.Errorf("import tag %q: %w", te.Name, err)
		}
		ids[te.Name] = tag.ID
	}
	return ids, nil
}

// resolveTagNames maps a guideline's tag names onto IDs created earlier.
func resolveTagNames(ids map[string]uuid.UUID, names []string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			return nil, fmt.Errorf("tag %q not declared in import file", name)
		}
		out = append(out, id)
	}
	return out, nil
}
