package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/bfhl/internal/emoji"
	"github.com/yildizm/bfhl/internal/filter"
	"github.com/yildizm/bfhl/internal/ui/components"
	"github.com/yildizm/bfhl/internal/workflow"
)

// focusArea is the control that receives key presses
type focusArea int

const (
	focusInput focusArea = iota
	focusSubmit
	focusFilters
	focusCount
)

const inputPlaceholder = `{"data": ["A","C","z","c","i","1","334","4"]}`

// Options prefill the widget
type Options struct {
	Input   string
	Filters []filter.ID
}

// Model is the interactive widget: JSON input, submit button, filter
// selector and the two result panes
type Model struct {
	ctx    context.Context
	widget *workflow.Widget
	styles *Styles

	input    textarea.Model
	filters  *components.Checklist
	spinner  spinner.Model
	response viewport.Model

	focus      focusArea
	submitting bool
	last       *workflow.Result

	width    int
	height   int
	ready    bool
	quitting bool
}

// NewModel creates a model driving the given widget
func NewModel(ctx context.Context, widget *workflow.Widget, opts Options) *Model {
	styles := GetStyles()

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(4)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	list := components.NewChecklist("Multi Filter", 0)
	for _, def := range filter.All() {
		list.AddItem(components.CheckItem{
			ID:          string(def.ID),
			Title:       string(def.ID),
			Description: def.Description,
		})
	}
	list.CheckedMark = emoji.GetEmoji("checked")
	list.UncheckedMark = emoji.GetEmoji("empty")

	m := &Model{
		ctx:      ctx,
		widget:   widget,
		styles:   styles,
		input:    ta,
		filters:  list,
		spinner:  sp,
		response: viewport.New(80, 10),
	}

	if opts.Input != "" {
		m.input.SetValue(opts.Input)
		widget.SetInput(opts.Input)
	}
	if opts.Filters != nil {
		widget.SetFilters(opts.Filters...)
	}
	m.syncFilters()
	m.refreshResponse()

	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case submitResultMsg:
		return m.handleSubmitResult(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	width := max(20, min(msg.Width-4, 100))
	m.input.SetWidth(width - 2)
	m.filters.Width = width - 2
	m.response.Width = width - 4
	m.response.Height = max(5, msg.Height-24)
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+s":
		return m, m.submit()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.response, cmd = m.response.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case focusInput:
		if msg.Type == tea.KeyEsc {
			m.setFocus(focusSubmit)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.widget.SetInput(m.input.Value())
		return m, cmd

	case focusSubmit:
		switch msg.String() {
		case "enter", " ":
			return m, m.submit()
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case focusFilters:
		switch msg.String() {
		case "up", "k":
			m.filters.MoveUp()
		case "down", "j":
			m.filters.MoveDown()
		case " ", "x", "enter":
			m.toggleFilter()
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	m.last = msg.result
	m.refreshResponse()
	return m, nil
}

// submit starts a submission unless one is already running
func (m *Model) submit() tea.Cmd {
	if m.busy() {
		return nil
	}
	m.submitting = true
	return tea.Batch(m.spinner.Tick, CreateSubmitCommand(m.ctx, m.widget))
}

func (m *Model) busy() bool {
	return m.submitting || m.widget.Snapshot().InProgress
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.filters.SetFocused(f == focusFilters)
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) toggleFilter() {
	item := m.filters.Current()
	if item == nil {
		return
	}
	m.widget.ToggleFilter(filter.ID(item.ID))
	m.syncFilters()
}

// syncFilters mirrors the widget selection into the checklist
func (m *Model) syncFilters() {
	ids := m.widget.Snapshot().Filters
	checked := make([]string, 0, len(ids))
	for _, id := range ids {
		checked = append(checked, string(id))
	}
	m.filters.SetChecked(checked)
}

func (m *Model) refreshResponse() {
	state := m.widget.Snapshot()
	m.response.SetContent(state.Response.Pretty())
	m.response.GotoTop()
}

// View renders the model
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.quitting {
		return emoji.GetEmoji("door") + " Bye!\n"
	}

	state := m.widget.Snapshot()
	s := m.styles

	sections := []string{
		s.Title.Render(emoji.GetEmoji("target") + " BFHL Challenge"),
		"",
		s.Label.Render("API Input"),
		m.renderInput(state),
	}
	if state.Error != "" {
		sections = append(sections, s.Error.Render(emoji.GetEmoji("error")+" "+state.Error))
	}

	sections = append(sections,
		"",
		m.renderButton(),
		"",
		m.filters.Render(),
	)
	if summary := m.filters.Summary(); summary != "" && m.focus != focusFilters {
		sections = append(sections, s.Muted.Render("Selected: "+summary))
	}

	sections = append(sections,
		"",
		s.Label.Render(emoji.GetEmoji("filter")+" Filtered Response"),
		s.Body.Render(state.Filtered),
		"",
		s.Label.Render(emoji.GetEmoji("response")+" API Response"),
	)
	if state.Response != nil {
		sections = append(sections, s.Panel.Render(m.response.View()))
	}

	sections = append(sections, "", s.Muted.Render(m.helpLine()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderInput(state workflow.State) string {
	style := m.styles.Input
	switch {
	case state.Error != "":
		style = m.styles.InputErrorStyle()
	case m.focus == focusInput:
		style = m.styles.InputFocused
	}
	return style.Render(m.input.View())
}

func (m *Model) renderButton() string {
	label := workflow.State{InProgress: m.busy()}.ButtonLabel()
	if m.busy() {
		return m.styles.ButtonBusy.Render(m.spinner.View() + " " + label)
	}
	if m.focus == focusSubmit {
		return m.styles.ButtonFocused.Render(label)
	}
	return m.styles.Button.Render(label)
}

func (m *Model) helpLine() string {
	parts := []string{"tab focus", "ctrl+s submit"}
	switch m.focus {
	case focusFilters:
		parts = append(parts, "↑↓ move", "space toggle", "q quit")
	case focusSubmit:
		parts = append(parts, "enter submit", "q quit")
	default:
		parts = append(parts, "esc leave input")
	}
	parts = append(parts, "pgup/pgdn scroll", "ctrl+c quit")
	return strings.Join(parts, " • ")
}

// Run runs the interactive widget until the user quits or ctx is done
func Run(ctx context.Context, widget *workflow.Widget, opts Options) error {
	model := NewModel(ctx, widget, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
