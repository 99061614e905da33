package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
)

// Run shows the browser tool window until the user quits or ctx is done
func Run(ctx context.Context, hub *surface.Hub, exec Executor, opts ...tea.ProgramOption) error {
	states, cancel := hub.Subscribe()
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(newModel(ctx, states, exec), opts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
