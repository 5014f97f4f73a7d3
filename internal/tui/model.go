// Package tui is the interactive checklist for today's routine.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/resolver"
	"github.com/julianstephens/dosely/internal/tui/components/checklist"
)

// viewMsg carries a snapshot published by the resolver.
type viewMsg struct {
	view resolver.View
}

type errMsg struct {
	err error
}

// streamClosedMsg is sent when the subscription ends.
type streamClosedMsg struct{}

type Model struct {
	ctx      context.Context
	resolver *resolver.Resolver
	views    <-chan resolver.View
	cancel   func()

	view    resolver.View
	hasView bool
	tab     int
	parts   []checklist.Model

	keys     KeyMap
	help     help.Model
	status   string
	quitting bool
	width    int
	height   int
}

// NewModel subscribes to res. Call Close when the program exits.
func NewModel(ctx context.Context, res *resolver.Resolver) Model {
	views, cancel := res.Subscribe()

	parts := make([]checklist.Model, 0, len(models.AllDayParts()))
	for _, p := range models.AllDayParts() {
		parts = append(parts, checklist.New(p))
	}

	return Model{
		ctx:      ctx,
		resolver: res,
		views:    views,
		cancel:   cancel,
		parts:    parts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
}

// Close ends the resolver subscription.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Toggle}
	if m.view.IsSpecialWorkoutWeekday {
		keys = append(keys, m.keys.Workout)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	actions := []key.Binding{m.keys.Toggle, m.keys.Refresh}
	if m.view.IsSpecialWorkoutWeekday {
		actions = append(actions, m.keys.Workout)
	}
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right},
		actions,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForView(), m.resolve())
}

func (m Model) waitForView() tea.Cmd {
	views := m.views
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return streamClosedMsg{}
		}
		return viewMsg{view: v}
	}
}

func (m Model) resolve() tea.Cmd {
	return func() tea.Msg {
		_, err := m.resolver.ResolveToday(m.ctx, nil)
		if err != nil && !errors.Is(err, apperrors.ErrStoreUnavailable) {
			return errMsg{err: err}
		}
		// Store outages arrive as a stale view on the subscription.
		return nil
	}
}

func (m Model) toggle(msg checklist.ToggleMsg) tea.Cmd {
	return func() tea.Msg {
		if err := m.resolver.Toggle(m.ctx, msg.DayPart, msg.ItemID, msg.Checked); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m Model) setWorkout(on bool) tea.Cmd {
	return func() tea.Msg {
		if err := m.resolver.SetWorkoutDayFlag(m.ctx, on); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}
