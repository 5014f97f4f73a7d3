// Package checklist renders one day-part of the resolved routine as a navigable list
// of check boxes.
package checklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/resolver"
)

// ToggleMsg asks the parent model to flip the check state of an item.
type ToggleMsg struct {
	DayPart models.DayPart
	ItemID  int64
	Checked bool
}

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "check"),
		),
	}
}

type Model struct {
	part    models.DayPart
	entries []resolver.Entry
	checked map[int64]bool
	cursor  int
	keys    KeyMap
}

func New(part models.DayPart) Model {
	return Model{part: part, checked: map[int64]bool{}, keys: DefaultKeyMap()}
}

// SetView replaces the rendered entries. The cursor stays on the same row when possible.
func (m *Model) SetView(v resolver.View) {
	m.entries = v.Entries[m.part]
	m.checked = v.Checked[m.part]
	if m.checked == nil {
		m.checked = map[int64]bool{}
	}
	if m.cursor >= len(m.entries) {
		m.cursor = max(len(m.entries)-1, 0)
	}
}

func (m Model) Part() models.DayPart { return m.part }

func (m Model) Cursor() int { return m.cursor }

// Remaining counts unchecked entries.
func (m Model) Remaining() int {
	n := 0
	for _, e := range m.entries {
		if !m.checked[e.Item.ID] {
			n++
		}
	}
	return n
}

func (m Model) Len() int { return len(m.entries) }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if len(m.entries) == 0 {
			return m, nil
		}
		e := m.entries[m.cursor]
		toggle := ToggleMsg{DayPart: m.part, ItemID: e.Item.ID, Checked: !m.checked[e.Item.ID]}
		return m, func() tea.Msg { return toggle }
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return "\n  Nothing scheduled for this part of the day."
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range m.entries {
		box := "[ ]"
		line := itemStyle.Render(e.Item.Name)
		if m.checked[e.Item.ID] {
			box = "[x]"
			line = checkedStyle.Render(e.Item.Name)
		}

		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, box, line)
	}
	return b.String()
}
