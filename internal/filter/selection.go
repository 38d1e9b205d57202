package filter

import (
	"strings"
)

// Selection is an ordered set of selected filter identifiers.
// Order only affects display; filtering is a logical OR.
type Selection struct {
	ids []ID
}

// NewSelection builds a selection, dropping duplicates
func NewSelection(ids ...ID) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// ParseSelection builds a selection from user-supplied names.
// Each value may itself be a comma-separated list. Names are normalized;
// unknown names are kept and returned separately so callers can warn.
func ParseSelection(values []string) (sel *Selection, unknown []string) {
	sel = &Selection{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, ok := Normalize(part)
			if !ok {
				unknown = append(unknown, string(id))
			}
			sel.Add(id)
		}
	}
	return sel, unknown
}

// Add selects id if not already selected
func (s *Selection) Add(id ID) {
	if s.Has(id) {
		return
	}
	s.ids = append(s.ids, id)
}

// Remove deselects id
func (s *Selection) Remove(id ID) {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

// Toggle flips the selection state of id and reports the new state
func (s *Selection) Toggle(id ID) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Has reports whether id is selected
func (s *Selection) Has(id ID) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selected identifiers in insertion order
func (s *Selection) IDs() []ID {
	if s == nil {
		return nil
	}
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected filters
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Clone returns an independent copy
func (s *Selection) Clone() *Selection {
	return &Selection{ids: s.IDs()}
}

// String renders the selection as shown in the multi-select control
func (s *Selection) String() string {
	names := make([]string, 0, s.Len())
	for _, id := range s.IDs() {
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}
