package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTagSetBulkPaste(t *testing.T) {
	s := NewTagSet()

	added := s.Add("Jorge Luis Borges, Adolfo Bioy Casares")
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"Jorge Luis Borges", "Adolfo Bioy Casares"}, s.Names())
}

func TestTagSetTrimsAndDropsEmptySegments(t *testing.T) {
	s := NewTagSet()

	s.Add("  Ficción , , Novela,  ")
	assert.Equal(t, []string{"Ficción", "Novela"}, s.Names())
}

func TestTagSetDeduplicatesCaseSensitively(t *testing.T) {
	s := NewTagSet("Ficción")

	s.Add("Ficción")
	assert.Equal(t, []string{"Ficción"}, s.Names())

	s.Add("ficción")
	assert.Equal(t, []string{"Ficción", "ficción"}, s.Names())
}

func TestTagSetPreservesExistingEntries(t *testing.T) {
	s := NewTagSet("Borges")

	s.Add("Cortázar, Borges")
	assert.Equal(t, []string{"Borges", "Cortázar"}, s.Names())
}

func TestTagSetRemove(t *testing.T) {
	s := NewTagSet("A", "B", "C")

	s.Remove("B")
	assert.Equal(t, []string{"A", "C"}, s.Names())

	s.Remove("missing")
	assert.Equal(t, []string{"A", "C"}, s.Names())

	// A removed entry can be re-added.
	s.Add("B")
	assert.Equal(t, []string{"A", "C", "B"}, s.Names())
}

// Merging arbitrary comma-separated pastes must yield set semantics: no
// duplicates, no empty or untrimmed entries, and previously-added entries
// preserved in order.
func TestTagSetMergeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewTagSet()
		pastes := rapid.SliceOfN(rapid.String(), 0, 8).Draw(t, "pastes")

		var prev []string
		for _, paste := range pastes {
			prev = s.Names()
			s.Add(paste)

			names := s.Names()
			seen := make(map[string]struct{}, len(names))
			for _, n := range names {
				if n == "" {
					t.Fatalf("empty entry in %q", names)
				}
				if n != strings.TrimSpace(n) {
					t.Fatalf("untrimmed entry %q", n)
				}
				if _, dup := seen[n]; dup {
					t.Fatalf("duplicate entry %q in %q", n, names)
				}
				seen[n] = struct{}{}
			}
			if len(names) < len(prev) {
				t.Fatalf("entries lost: had %q, now %q", prev, names)
			}
			for i, n := range prev {
				if names[i] != n {
					t.Fatalf("prior entry %q displaced by %q", n, names[i])
				}
			}
		}
	})
}
