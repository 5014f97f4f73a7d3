package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dosely/internal/resolver"
)

// Run starts the full-screen checklist and blocks until the user quits.
func Run(ctx context.Context, res *resolver.Resolver) error {
	m := NewModel(ctx, res)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
