package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/bfhl/internal/workflow"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(result *workflow.Result) ([]byte, error) {
	if result == nil {
		return nil, errNilResult
	}

	var b strings.Builder
	b.WriteString("# BFHL Submission\n\n")

	if !result.OK() {
		b.WriteString("## Error\n\n")
		fmt.Fprintf(&b, "> %s\n", result.Message())
		return []byte(b.String()), nil
	}

	f.writeSummaryTable(&b, result)
	f.writeResponse(&b, result)

	return []byte(b.String()), nil
}

// writeSummaryTable writes the filter selection and result as a table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, result *workflow.Result) {
	b.WriteString("## Filtered Response\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| Filters | %s |\n", escapeCell(filterList(result.Filters)))
	fmt.Fprintf(b, "| Matched | %d |\n", len(result.Items))
	fmt.Fprintf(b, "| Result | `%s` |\n\n", escapeCell(result.Filtered))
}

// writeResponse writes the raw service response as a fenced block
func (f *markdownFormatter) writeResponse(b *strings.Builder, result *workflow.Result) {
	if result.Response == nil {
		return
	}

	fmt.Fprintf(b, "## API Response (HTTP %d)\n\n", result.Response.StatusCode)
	body := result.Response.Pretty()
	if body == "" {
		b.WriteString("_Empty body_\n")
		return
	}
	b.WriteString("```json\n")
	b.WriteString(body)
	b.WriteString("\n```\n")
}

// escapeCell keeps pipes from breaking the table
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
