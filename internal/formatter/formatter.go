package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/bfhl/internal/workflow"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result *workflow.Result) ([]byte, error)
}

// Supported output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Options control the presentation of terminal output
type Options struct {
	Color bool
	Emoji bool
}

// New returns the formatter for the named format
func New(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTerminal(opts), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
