package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/bfhl/internal/workflow"
)

// submitResultMsg carries the outcome of a submission back to the model
type submitResultMsg struct {
	result *workflow.Result
}

// CreateSubmitCommand creates a tea command that runs one submission
func CreateSubmitCommand(ctx context.Context, widget *workflow.Widget) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{result: widget.Submit(ctx)}
	}
}
