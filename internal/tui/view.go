package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.hasView {
		return "\n  Loading today's routine...\n"
	}

	parts := []string{m.viewHeader(), m.viewTabs(), docStyle.Render(m.parts[m.tab].View())}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	header := fmt.Sprintf("%s (%s)", m.view.DateKey, m.view.Weekday)
	if m.view.IsSpecialWorkoutWeekday {
		if m.view.WorkoutDayActive {
			header += "  " + workoutStyle.Render("workout day")
		} else {
			header += "  rest day"
		}
	}
	return headerStyle.Render(header)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(m.parts))
	for i, p := range m.parts {
		title := fmt.Sprintf("%s %d/%d", p.Part(), p.Len()-p.Remaining(), p.Len())
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
