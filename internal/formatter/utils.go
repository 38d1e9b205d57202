package formatter

import (
	"errors"
	"strings"

	"github.com/yildizm/bfhl/internal/filter"
)

var errNilResult = errors.New("formatter: nil result")

// filterList renders the selected filters in display order
func filterList(ids []filter.ID) string {
	if len(ids) == 0 {
		return "none"
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}

// displayFiltered substitutes a placeholder for an empty result
func displayFiltered(s string) string {
	if s == "" {
		return "(nothing matched)"
	}
	return s
}
