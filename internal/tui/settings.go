package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitmap/internal/theme"
)

// settingsModel shows the session configuration and lets the user pick a
// theme. Everything else comes from flags or the environment.
type settingsModel struct {
	themes  *theme.Provider
	timeout time.Duration
	info    []settingRow
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	themeChoice *string
}

type settingRow struct {
	label string
	value string
}

func newSettingsModel(themes *theme.Provider, timeout time.Duration, info []settingRow) settingsModel {
	choice := string(themes.Theme())
	return settingsModel{
		themes:      themes,
		timeout:     timeout,
		info:        info,
		themeChoice: &choice,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.themeChoice = string(s.themes.Theme())

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Light", string(theme.Light)),
					huh.NewOption("Dark", string(theme.Dark)),
				).Value(s.themeChoice),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.saveTheme()
	}
	return s, cmd
}

func (s settingsModel) saveTheme() tea.Cmd {
	t, err := theme.Parse(*s.themeChoice)
	if err != nil {
		return errorCmd("Theme", err)
	}
	ctx, cancel := callContext(s.timeout)
	defer cancel()
	if err := s.themes.Set(ctx, t); err != nil {
		return errorCmd("Save theme", err)
	}
	return statusCmd("Theme: " + string(t))
}

func (s settingsModel) view(st styles) string {
	w := s.width - 4
	title := st.title.Render("Settings")

	if s.formActive && s.form != nil {
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	rows = append(rows, s.renderRow(st, "theme", string(s.themes.Theme())))
	for _, r := range s.info {
		rows = append(rows, s.renderRow(st, r.label, r.value))
	}
	rows = append(rows, "", st.muted.Render("Press enter to change the theme"))

	return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) renderRow(st styles, label, value string) string {
	l := lipgloss.NewStyle().Width(16).Render(label)
	return fmt.Sprintf("  %s %s", l, st.accent.Render(value))
}
