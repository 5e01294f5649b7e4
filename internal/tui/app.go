package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitmap/internal/calendar"
	"github.com/sadopc/habitmap/internal/export"
	"github.com/sadopc/habitmap/internal/habit"
	"github.com/sadopc/habitmap/internal/logger"
	"github.com/sadopc/habitmap/internal/theme"
)

// Config wires the App to its data and presentation dependencies. The
// tracker is expected to be loaded already.
type Config struct {
	Tracker   *habit.Tracker
	Themes    *theme.Provider
	Timeout   time.Duration
	ExportDir string
	Backend   string
	Colors    string
	Now       func() time.Time
	// LoadErr is the initial load failure, if any. The app still starts,
	// with an empty list and the error on the status line.
	LoadErr error
}

// App is the root Bubble Tea model.
type App struct {
	tracker   *habit.Tracker
	themes    *theme.Provider
	timeout   time.Duration
	exportDir string
	now       func() time.Time
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	habits   habitsModel
	stats    statsModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(cfg Config) App {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Themes == nil {
		cfg.Themes = theme.NewProvider(context.Background(), nil)
	}

	h := help.New()
	h.ShowAll = false

	info := []settingRow{
		{label: "backend", value: cfg.Backend},
		{label: "color policy", value: cfg.Colors},
		{label: "timeout", value: cfg.Timeout.String()},
		{label: "export dir", value: cfg.ExportDir},
	}

	a := App{
		tracker:    cfg.Tracker,
		themes:     cfg.Themes,
		timeout:    cfg.Timeout,
		exportDir:  cfg.ExportDir,
		now:        cfg.Now,
		activeView: viewHabits,
		habits:     newHabitsModel(cfg.Tracker, cfg.Themes, cfg.Timeout, cfg.Now),
		stats:      newStatsModel(),
		settings:   newSettingsModel(cfg.Themes, cfg.Timeout, info),
		help:       h,
	}
	if cfg.LoadErr != nil {
		a.status = fmt.Sprintf("Load failed: %v", cfg.LoadErr)
		a.statusError = true
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd wakes the program once a minute so the today marker follows the
// clock across midnight.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.habits.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.refreshStats()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Theme):
			return a, a.toggleTheme()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHabits
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			a.refreshStats()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			a.refreshStats()
			return a, nil
		}

	case tickMsg:
		a.refreshStats()
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewStats:
		// Habit and year selection is shared with the habits view.
		if km, ok := msg.(tea.KeyMsg); ok && isSelectionKey(km) {
			a.habits, cmd = a.habits.update(km)
			a.refreshStats()
		}
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func isSelectionKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, keys.NextHab, keys.PrevHab, keys.PrevYear, keys.NextYear)
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewHabits:
		return a.habits.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a *App) refreshStats() {
	h, ok := a.habits.selectedHabit()
	a.stats.build(h, ok, a.habits.year, calendar.Today(a.now()))
}

func (a App) toggleTheme() tea.Cmd {
	ctx, cancel := callContext(a.timeout)
	defer cancel()
	t, err := a.themes.Toggle(ctx)
	if err != nil {
		return errorCmd("Save theme", err)
	}
	return statusCmd("Theme: " + string(t))
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	st := newStyles(a.themes.Palette())
	header := a.renderHeader(st)
	footer := a.renderFooter(st)

	var content string
	switch a.activeView {
	case viewHabits:
		content = a.habits.view(st)
	case viewStats:
		content = a.stats.view(st)
	case viewSettings:
		content = a.settings.view(st)
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker(st)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader(st styles) string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, st.activeTab.Render(name))
		} else {
			tabs = append(tabs, st.inactiveTab.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := st.accent.Bold(true).Render("habitmap")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return st.header.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter(st styles) string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = st.errorTxt.Render(" " + a.status)
		} else {
			status = st.muted.Render(" " + a.status)
		}
	}

	left := st.footer.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker(st styles) string {
	rows := []string{st.title.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := st.normalItem
		if i == a.exportCursor {
			cursor = "> "
			style = st.selectedItem
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", st.muted.Render("  enter: export  esc: cancel"))

	return st.activePanel.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes a snapshot of the current habits. The snapshot is taken
// before the command runs; date sets are never mutated in place.
func (a App) doExport(format int) tea.Cmd {
	habits := a.tracker.Habits()
	dateStr := calendar.DateString(calendar.Today(a.now()))
	dir := a.exportDir

	return func() tea.Msg {
		var path string
		var err error
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("habitmap-export-%s.csv", dateStr))
			err = export.ToCSV(habits, path)
		} else {
			path = filepath.Join(dir, fmt.Sprintf("habitmap-export-%s.json", dateStr))
			err = export.ToJSON(habits, path)
		}
		if err != nil {
			logger.Error("Export failed", "path", path, "error", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		logger.Info("Exported habits", "path", path, "count", len(habits))
		return exportDoneMsg{path: path}
	}
}
