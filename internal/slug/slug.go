// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-safe identifiers from human-readable titles and
// resolves collisions within a uniqueness scope.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// invalidChars matches anything that isn't a word character, whitespace,
	// or a hyphen. Hyphens are kept so that re-slugifying a slug is a no-op.
	invalidChars = regexp.MustCompile(`[^a-z0-9_\s-]`)
	// whitespace matches runs of whitespace, collapsed into a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-safe slug from the given string.
// Example: "Flu Care! (2026)" → "flu-care-2026"
//
// Generate is pure and idempotent: Generate(Generate(s)) == Generate(s).
// It does not guarantee uniqueness — that is the Resolver's job.
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = invalidChars.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Resolver assigns slugs that are unique within a single scope, such as all
// persisted guidelines or one import batch. The first request for a base slug
// returns it unsuffixed; collisions are numbered starting at 2, so three
// requests for "asthma" yield "asthma", "asthma-2", "asthma-3".
//
// A Resolver is not safe for concurrent use; each operation builds its own.
type Resolver struct {
	counts map[string]int
	taken  map[string]struct{}
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		counts: make(map[string]int),
		taken:  make(map[string]struct{}),
	}
}

// MarkTaken seeds the resolver with slugs that already exist in the scope,
// typically loaded from the database before resolving. A seeded slug is never
// handed out; Resolve skips past it to the next free suffix.
func (r *Resolver) MarkTaken(slugs ...string) {
	for _, s := range slugs {
		r.taken[s] = struct{}{}
	}
}

// Resolve returns a slug unique within this resolver's scope.
func (r *Resolver) Resolve(base string) string {
	n := r.counts[base] + 1
	candidate := base
	if n > 1 {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	for {
		if _, exists := r.taken[candidate]; !exists {
			break
		}
		n++
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	r.counts[base] = n
	r.taken[candidate] = struct{}{}
	return candidate
}
