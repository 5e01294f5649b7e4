package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/habitmap/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	app := tui.NewApp(tui.Config{
		Tracker:   ctx.Tracker,
		Themes:    ctx.Themes,
		Timeout:   ctx.Timeout,
		ExportDir: ctx.ExportDir,
		Backend:   ctx.Backend,
		Colors:    ctx.Colors,
		Now:       ctx.Now,
		LoadErr:   ctx.LoadErr,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
