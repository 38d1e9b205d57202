package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/bfhl/internal/workflow"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter renders a submission for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter
func NewTerminal(o Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = o.Emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(result *workflow.Result) ([]byte, error) {
	if result == nil {
		return nil, errNilResult
	}

	var b strings.Builder

	if !result.OK() {
		symbol := termfmt.GetEmoji("error", f.opts)
		fmt.Fprintf(&b, "%s %s\n", symbol, result.Message())
		return []byte(b.String()), nil
	}

	f.writeFiltered(&b, result)
	f.writeResponse(&b, result)

	return []byte(b.String()), nil
}

// writeFiltered writes the filter selection and the joined output
func (f *terminalFormatter) writeFiltered(b *strings.Builder, result *workflow.Result) {
	symbol := termfmt.GetEmoji("pattern", f.opts)
	b.WriteString(symbol + " Filtered Response\n")

	items := []termfmt.TreeItem{
		{Label: "Filters", Value: filterList(result.Filters)},
		{Label: "Matched", Value: fmt.Sprintf("%d item(s)", len(result.Items))},
		{Label: "Result", Value: displayFiltered(result.Filtered), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeResponse writes the pretty printed service response
func (f *terminalFormatter) writeResponse(b *strings.Builder, result *workflow.Result) {
	if result.Response == nil {
		return
	}

	symbol := termfmt.GetEmoji("info", f.opts)
	fmt.Fprintf(b, "%s API Response (HTTP %d)\n", symbol, result.Response.StatusCode)

	body := result.Response.Pretty()
	if body == "" {
		body = "(empty body)"
	}
	b.WriteString(body + "\n")
}
