package crypto

import (
	"strings"
	"testing"
)

func TestNewSlugLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		slug, err := NewSlug()
		if err != nil {
			t.Fatalf("NewSlug() unexpected error: %v", err)
		}
		if len(slug) != SlugLength {
			t.Fatalf("NewSlug() length = %d, want %d", len(slug), SlugLength)
		}
		for _, ch := range slug {
			if !strings.ContainsRune(slugAlphabet, ch) {
				t.Errorf("slug %q contains character %q outside the URL-safe alphabet", slug, string(ch))
			}
		}
	}
}

func TestNewSlugProducesUniqueSlugs(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		slug, err := NewSlug()
		if err != nil {
			t.Fatalf("NewSlug() unexpected error: %v", err)
		}
		if seen[slug] {
			t.Errorf("duplicate slug generated: %q", slug)
		}
		seen[slug] = true
	}
}
