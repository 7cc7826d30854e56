package handlers

import (
	"unicode/utf8"

	"careguide/internal/store"
)

// Validation limits for taxonomy fields. Required-ness and trimming are
// enforced by the stores; the handlers reject oversized input before it
// reaches the database.
const (
	maxNameLen        = 200
	maxTitleLen       = 300
	maxContentLen     = 200_000
	maxDescriptionLen = 2_000
	maxRefTitleLen    = 300
	maxRefURLLen      = 2_000
)

// validateName checks a category or tag name plus its optional description.
func validateName(name string, description *string) error {
	if utf8.RuneCountInString(name) > maxNameLen {
		return &store.ValidationError{Field: "name", Message: "is too long (max 200 characters)"}
	}
	return validateDescription(description)
}

// validateDescription checks an optional description field.
func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLen {
		return &store.ValidationError{Field: "description", Message: "is too long (max 2,000 characters)"}
	}
	return nil
}

// validateGuidelineFields checks optional title and content patches. Nil
// fields are skipped, matching the partial-update semantics of the store.
func validateGuidelineFields(title, content *string) error {
	if title != nil && utf8.RuneCountInString(*title) > maxTitleLen {
		return &store.ValidationError{Field: "title", Message: "is too long (max 300 characters)"}
	}
	if content != nil && utf8.RuneCountInString(*content) > maxContentLen {
		return &store.ValidationError{Field: "content", Message: "is too long (max 200,000 characters)"}
	}
	return nil
}

// validateReferences checks citation inputs attached on guideline creation.
func validateReferences(refs []store.ReferenceInput) error {
	for _, ref := range refs {
		if utf8.RuneCountInString(ref.Title) > maxRefTitleLen {
			return &store.ValidationError{Field: "references.title", Message: "is too long (max 300 characters)"}
		}
		if ref.URL != nil && utf8.RuneCountInString(*ref.URL) > maxRefURLLen {
			return &store.ValidationError{Field: "references.url", Message: "is too long (max 2,000 characters)"}
		}
		if err := validateDescription(ref.Description); err != nil {
			return err
		}
	}
	return nil
}
