package slug

import "testing"

// TestGenerate exercises the slug generator with typical guideline titles,
// special characters, whitespace, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{
			name:  "simple two words",
			input: "Asthma Management",
			want:  "asthma-management",
		},
		{
			name:  "title with year",
			input: "Sepsis Bundle 2026",
			want:  "sepsis-bundle-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single word",
			input: "Overview",
			want:  "overview",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Flu Care! How's it treated?",
			want:  "flu-care-hows-it-treated",
		},
		{
			name:  "ampersand and slash",
			input: "Diet & Exercise / Lifestyle",
			want:  "diet-exercise-lifestyle",
		},
		{
			name:  "parentheses and brackets",
			input: "Metformin (500mg) [First Line]",
			want:  "metformin-500mg-first-line",
		},
		{
			name:  "dosage with units",
			input: "Aspirin 75–150 mg daily",
			want:  "aspirin-75150-mg-daily",
		},
		{
			name:  "underscore preserved",
			input: "icd_10 coding notes",
			want:  "icd_10-coding-notes",
		},

		// --- Whitespace handling ---
		{
			name:  "leading and trailing spaces",
			input: "  hypertension basics  ",
			want:  "hypertension-basics",
		},
		{
			name:  "multiple consecutive spaces collapsed",
			input: "type    2    diabetes",
			want:  "type-2-diabetes",
		},
		{
			name:  "tabs and newlines collapsed",
			input: "copd\texacerbation\nprotocol",
			want:  "copd-exacerbation-protocol",
		},

		// --- Hyphen handling ---
		{
			name:  "existing hyphen preserved",
			input: "evidence-based care",
			want:  "evidence-based-care",
		},
		{
			name:  "hyphens and spaces mixed",
			input: "  --pre- and post-op--  ",
			want:  "pre-and-post-op",
		},
		{
			name:  "multiple hyphens collapsed",
			input: "before---after",
			want:  "before-after",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only spaces",
			input: "     ",
			want:  "",
		},
		{
			name:  "only special characters",
			input: "!@#$%^&*()",
			want:  "",
		},
		{
			name:  "single character",
			input: "A",
			want:  "a",
		},
		{
			name:  "date-like string",
			input: "2026-02-25",
			want:  "2026-02-25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	inputs := []string{
		"flu-care",
		"Asthma Management",
		"Metformin (500mg) [First Line]",
		"  --pre- and post-op--  ",
		"a",
		"123",
		"",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Generate(in)
			twice := Generate(once)
			if twice != once {
				t.Errorf("Generate(Generate(%q)) = %q, want %q", in, twice, once)
			}
		})
	}
}

// TestResolver pins the collision numbering: the first occurrence of a base
// slug is unsuffixed and numbering starts at 2 on the second occurrence.
func TestResolver(t *testing.T) {
	r := NewResolver()

	want := []string{"asthma", "asthma-2", "asthma-3"}
	for i, w := range want {
		got := r.Resolve("asthma")
		if got != w {
			t.Errorf("Resolve #%d = %q, want %q", i+1, got, w)
		}
	}
}

// TestResolver_DistinctBases verifies that counters are independent per base.
func TestResolver_DistinctBases(t *testing.T) {
	r := NewResolver()

	if got := r.Resolve("asthma"); got != "asthma" {
		t.Errorf("Resolve(asthma) = %q, want %q", got, "asthma")
	}
	if got := r.Resolve("flu-care"); got != "flu-care" {
		t.Errorf("Resolve(flu-care) = %q, want %q", got, "flu-care")
	}
	if got := r.Resolve("asthma"); got != "asthma-2" {
		t.Errorf("second Resolve(asthma) = %q, want %q", got, "asthma-2")
	}
}

// TestResolver_GenerateThenResolve covers titles that collide only after
// slugification: "Flu Care!" and "flu care" share the base "flu-care".
func TestResolver_GenerateThenResolve(t *testing.T) {
	r := NewResolver()

	titles := []string{"Flu Care!", "flu care"}
	want := []string{"flu-care", "flu-care-2"}
	for i, title := range titles {
		got := r.Resolve(Generate(title))
		if got != want[i] {
			t.Errorf("Resolve(Generate(%q)) = %q, want %q", title, got, want[i])
		}
	}
}

// TestResolver_MarkTaken verifies that slugs seeded from persisted rows are
// skipped, including numbered ones.
func TestResolver_MarkTaken(t *testing.T) {
	r := NewResolver()
	r.MarkTaken("overview", "overview-2")

	if got := r.Resolve("overview"); got != "overview-3" {
		t.Errorf("Resolve(overview) = %q, want %q", got, "overview-3")
	}
	if got := r.Resolve("overview"); got != "overview-4" {
		t.Errorf("second Resolve(overview) = %q, want %q", got, "overview-4")
	}
}

// TestResolver_IndependentScopes verifies that separate resolvers do not
// share state: each scope restarts its numbering.
func TestResolver_IndependentScopes(t *testing.T) {
	a := NewResolver()
	b := NewResolver()

	if got := a.Resolve("overview"); got != "overview" {
		t.Errorf("scope a: Resolve = %q, want %q", got, "overview")
	}
	if got := b.Resolve("overview"); got != "overview" {
		t.Errorf("scope b: Resolve = %q, want %q", got, "overview")
	}
}
