package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunBrowser runs the interactive browser until the user quits or ctx is
// cancelled.
func RunBrowser(ctx context.Context, deps BrowserDeps) error {
	p := tea.NewProgram(NewBrowserModel(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
