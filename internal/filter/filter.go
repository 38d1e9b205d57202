package filter

import (
	"strings"
)

// ID identifies a client-side string filter
type ID string

const (
	Alphabets                ID = "Alphabets"
	Numbers                  ID = "Numbers"
	HighestLowercaseAlphabet ID = "Highest lowercase alphabet"
)

// Predicate reports whether a single item is kept by a filter
type Predicate func(item string) bool

// Definition describes a filter for listings and help output
type Definition struct {
	ID          ID
	Alias       string
	Description string
	Predicate   Predicate
}

var definitions = []Definition{
	{
		ID:          Alphabets,
		Alias:       "alpha",
		Description: "single ASCII letter, upper or lower case",
		Predicate:   IsAlphabet,
	},
	{
		ID:          Numbers,
		Alias:       "num",
		Description: "numeric string (sign, digits, decimals, exponent)",
		Predicate:   IsNumeric,
	},
	{
		// The name is historical: this keeps every single lowercase letter,
		// it does not compute a maximum.
		ID:          HighestLowercaseAlphabet,
		Alias:       "lower",
		Description: "single lowercase ASCII letter",
		Predicate:   IsLowercaseAlphabet,
	},
}

// All returns the filter definitions in display order
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// IDs returns the filter identifiers in display order
func IDs() []ID {
	ids := make([]ID, 0, len(definitions))
	for _, d := range definitions {
		ids = append(ids, d.ID)
	}
	return ids
}

// Lookup finds a filter by exact identifier
func Lookup(id ID) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Normalize maps user spelling to a canonical identifier. Identifiers match
// case-insensitively, and aliases are accepted. Unknown names come back
// unchanged with ok=false.
func Normalize(name string) (ID, bool) {
	trimmed := strings.TrimSpace(name)
	for _, d := range definitions {
		if strings.EqualFold(trimmed, string(d.ID)) || strings.EqualFold(trimmed, d.Alias) {
			return d.ID, true
		}
	}
	return ID(trimmed), false
}

func reject(string) bool { return false }

// Resolve turns selected identifiers into predicates.
// Unknown identifiers resolve to a predicate that rejects everything.
func Resolve(ids []ID) []Predicate {
	preds := make([]Predicate, 0, len(ids))
	for _, id := range ids {
		if d, ok := Lookup(id); ok {
			preds = append(preds, d.Predicate)
			continue
		}
		preds = append(preds, reject)
	}
	return preds
}

// Apply keeps every item accepted by at least one predicate, in input order.
// With no predicates nothing is kept.
func Apply(items []string, preds []Predicate) []string {
	kept := make([]string, 0, len(items))
	if len(preds) == 0 {
		return kept
	}
	for _, item := range items {
		for _, p := range preds {
			if p(item) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}

// Join renders kept items as a comma-separated string
func Join(items []string) string {
	return strings.Join(items, ",")
}

// Run resolves, applies and joins in one step
func Run(items []string, ids []ID) (kept []string, joined string) {
	kept = Apply(items, Resolve(ids))
	return kept, Join(kept)
}

// IsAlphabet reports whether s is exactly one ASCII letter
func IsAlphabet(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsLowercaseAlphabet reports whether s is exactly one lowercase ASCII letter
func IsLowercaseAlphabet(s string) bool {
	return len(s) == 1 && s[0] >= 'a' && s[0] <= 'z'
}
