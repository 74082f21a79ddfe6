package catalog

import "strings"

// TagSet is the chip-entry model behind the author and genre inputs on the
// book forms. Entries keep insertion order and are deduplicated
// case-sensitively, so "Ficción" and "ficción" are distinct tags.
type TagSet struct {
	names []string
	seen  map[string]struct{}
}

// NewTagSet creates a set pre-populated with the given names via Add.
func NewTagSet(names ...string) *TagSet {
	s := &TagSet{seen: make(map[string]struct{})}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add splits raw on commas, trims each segment, drops empties, and merges
// the remainder into the set. A single name without commas is one segment.
// It reports how many new entries were added.
func (s *TagSet) Add(raw string) int {
	added := 0
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := s.seen[name]; dup {
			continue
		}
		s.seen[name] = struct{}{}
		s.names = append(s.names, name)
		added++
	}
	return added
}

// Remove deletes exactly the named entry.
func (s *TagSet) Remove(name string) {
	if _, ok := s.seen[name]; !ok {
		return
	}
	delete(s.seen, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return
		}
	}
}

// Names returns the entries in insertion order.
func (s *TagSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len reports the number of entries.
func (s *TagSet) Len() int {
	return len(s.names)
}
