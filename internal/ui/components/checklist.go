package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CheckItem is one selectable entry of a Checklist
type CheckItem struct {
	ID          string
	Title       string
	Description string
	Checked     bool
}

// Checklist is a navigable multi-select list
type Checklist struct {
	Title    string
	Items    []CheckItem
	Selected int
	Focused  bool
	Width    int

	// Marks used in place of checkboxes, e.g. [x] and [ ]
	CheckedMark   string
	UncheckedMark string
}

// NewChecklist creates a new checklist component
func NewChecklist(title string, width int) *Checklist {
	return &Checklist{
		Title:         title,
		Width:         width,
		CheckedMark:   "[x]",
		UncheckedMark: "[ ]",
	}
}

// AddItem adds an item to the list
func (l *Checklist) AddItem(item CheckItem) {
	l.Items = append(l.Items, item)
}

// SetFocused sets the focus state of the list
func (l *Checklist) SetFocused(focused bool) {
	l.Focused = focused
}

// SetChecked checks exactly the items whose IDs are given
func (l *Checklist) SetChecked(ids []string) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for i := range l.Items {
		l.Items[i].Checked = set[l.Items[i].ID]
	}
}

// Checked returns the IDs of the checked items in list order
func (l *Checklist) Checked() []string {
	var ids []string
	for _, item := range l.Items {
		if item.Checked {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Current returns the item under the cursor
func (l *Checklist) Current() *CheckItem {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Selected]
}

// Toggle flips the item under the cursor and returns it
func (l *Checklist) Toggle() *CheckItem {
	item := l.Current()
	if item != nil {
		item.Checked = !item.Checked
	}
	return item
}

// MoveUp moves selection up
func (l *Checklist) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves selection down
func (l *Checklist) MoveDown() {
	if l.Selected < len(l.Items)-1 {
		l.Selected++
	}
}

// Summary renders the checked titles the way a closed multi-select shows them
func (l *Checklist) Summary() string {
	var titles []string
	for _, item := range l.Items {
		if item.Checked {
			titles = append(titles, item.Title)
		}
	}
	return strings.Join(titles, ", ")
}

// Render renders the list
func (l *Checklist) Render() string {
	primaryColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	selectedColor := lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}

	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	cursorStyle := lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	content := []string{headerStyle.Render(l.Title)}

	for i := range l.Items {
		item := &l.Items[i]
		line := l.renderItem(item)
		if l.Focused && i == l.Selected {
			content = append(content, cursorStyle.Render("> "+line))
			continue
		}
		content = append(content, normalStyle.Render("  "+line))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)

	border := secondaryColor
	if l.Focused {
		border = primaryColor
	}
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if l.Width > 0 {
		panelStyle = panelStyle.Width(l.Width)
	}

	return panelStyle.Render(joined)
}

// renderItem renders a single list item
func (l *Checklist) renderItem(item *CheckItem) string {
	mark := l.UncheckedMark
	if item.Checked {
		mark = l.CheckedMark
	}
	line := mark + " " + item.Title
	if item.Description != "" && l.Focused {
		line += " - " + item.Description
	}
	return line
}
