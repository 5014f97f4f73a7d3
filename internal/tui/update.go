package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/tui/components/checklist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		m.view = msg.view
		m.hasView = true
		for i := range m.parts {
			m.parts[i].SetView(msg.view)
		}
		if msg.view.Stale {
			m.status = "Showing last known state; the store is unavailable."
		} else {
			m.status = ""
		}
		return m, m.waitForView()

	case streamClosedMsg:
		return m, nil

	case errMsg:
		logger.Warn("TUI action failed", "error", msg.err)
		m.status = "Error: " + msg.err.Error()
		return m, nil

	case checklist.ToggleMsg:
		return m, m.toggle(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.tab = (m.tab + 1) % len(m.parts)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.tab = (m.tab - 1 + len(m.parts)) % len(m.parts)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.resolve()
		case key.Matches(msg, m.keys.Workout):
			if !m.hasView || !m.view.IsSpecialWorkoutWeekday {
				m.status = "Workout days are Monday, Wednesday and Friday."
				return m, nil
			}
			return m, m.setWorkout(!m.view.WorkoutDayActive)
		}
	}

	var cmd tea.Cmd
	m.parts[m.tab], cmd = m.parts[m.tab].Update(msg)
	return m, cmd
}
