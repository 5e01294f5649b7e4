package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitmap/internal/calendar"
	"github.com/sadopc/habitmap/internal/habit"
	"github.com/sadopc/habitmap/internal/theme"
)

const (
	formNew    = "new"
	formRename = "rename"
	formDelete = "delete"

	// yearSpan is how far the year picker reaches either side of today.
	yearSpan = 2

	// cardHeight is the rendered height of one habit card.
	cardHeight = 14
)

type habitsModel struct {
	tracker *habit.Tracker
	themes  *theme.Provider
	timeout time.Duration
	now     func() time.Time
	width   int
	height  int

	selected int
	year     int
	cursor   time.Time

	editor habit.Editor

	formActive bool
	form       *huh.Form
	formType   string

	// Form field pointers (survive value copies)
	formName    *string
	formConfirm *bool
	deletingID  string
}

func newHabitsModel(tr *habit.Tracker, themes *theme.Provider, timeout time.Duration, now func() time.Time) habitsModel {
	name, confirm := "", false
	today := calendar.Today(now())
	return habitsModel{
		tracker:     tr,
		themes:      themes,
		timeout:     timeout,
		now:         now,
		year:        today.Year(),
		cursor:      today,
		formName:    &name,
		formConfirm: &confirm,
	}
}

func (p *habitsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

// selectedHabit returns the highlighted habit, if there is one.
func (p habitsModel) selectedHabit() (habit.Habit, bool) {
	habits := p.tracker.Habits()
	if len(habits) == 0 {
		return habit.Habit{}, false
	}
	return habits[clamp(p.selected, 0, len(habits)-1)], true
}

func (p habitsModel) today() string {
	return calendar.DateString(calendar.Today(p.now()))
}

func (p habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(km, keys.Up):
		p.cursor = moveCursor(p.cursor, -1, p.year)
	case key.Matches(km, keys.Down):
		p.cursor = moveCursor(p.cursor, 1, p.year)
	case key.Matches(km, keys.Left):
		p.cursor = moveCursor(p.cursor, -7, p.year)
	case key.Matches(km, keys.Right):
		p.cursor = moveCursor(p.cursor, 7, p.year)
	case key.Matches(km, keys.Toggle):
		return p.toggleCursor()
	case key.Matches(km, keys.NextHab):
		p.selectBy(1)
	case key.Matches(km, keys.PrevHab):
		p.selectBy(-1)
	case key.Matches(km, keys.PrevYear):
		p.setYear(p.year - 1)
	case key.Matches(km, keys.NextYear):
		p.setYear(p.year + 1)
	case key.Matches(km, keys.New):
		return p.showNewForm()
	case key.Matches(km, keys.Rename):
		return p.showRenameForm()
	case key.Matches(km, keys.Delete):
		return p.showDeleteForm()
	}
	return p, nil
}

func (p *habitsModel) selectBy(delta int) {
	n := len(p.tracker.Habits())
	if n == 0 {
		p.selected = 0
		return
	}
	p.selected = clamp(p.selected+delta, 0, n-1)
}

// setYear moves to year, bounded to today's year plus or minus yearSpan.
// The cursor keeps its month and day where it can.
func (p *habitsModel) setYear(year int) {
	current := p.now().Year()
	year = clamp(year, current-yearSpan, current+yearSpan)
	if year == p.year {
		return
	}
	switch {
	case year == current:
		p.cursor = calendar.Today(p.now())
	case p.cursor.Year() == p.year:
		p.cursor = calendar.Date(year, p.cursor.Month(), p.cursor.Day())
	default:
		p.cursor = calendar.Date(year, time.January, 1)
	}
	p.year = year
}

func (p habitsModel) toggleCursor() (habitsModel, tea.Cmd) {
	h, ok := p.selectedHabit()
	if !ok {
		return p, nil
	}
	if p.cursor.Year() != p.year {
		return p, statusCmd(fmt.Sprintf("Only days in %d can be toggled", p.year))
	}

	ctx, cancel := callContext(p.timeout)
	defer cancel()
	date := calendar.DateString(p.cursor)
	done, err := p.tracker.Toggle(ctx, h.ID, date)
	if err != nil {
		return p, errorCmd("Toggle", err)
	}
	if done {
		return p, statusCmd(fmt.Sprintf("%s: %s completed", h.Name, date))
	}
	return p, statusCmd(fmt.Sprintf("%s: %s cleared", h.Name, date))
}

func (p habitsModel) showNewForm() (habitsModel, tea.Cmd) {
	*p.formName = ""
	p.formType = formNew

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Placeholder("Enter new habit name").Value(p.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p habitsModel) showRenameForm() (habitsModel, tea.Cmd) {
	h, ok := p.selectedHabit()
	if !ok {
		return p, nil
	}
	p.editor.Start(h.ID, h.Name)
	*p.formName = h.Name
	p.formType = formRename

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Rename Habit").Value(p.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p habitsModel) showDeleteForm() (habitsModel, tea.Cmd) {
	h, ok := p.selectedHabit()
	if !ok {
		return p, nil
	}
	*p.formConfirm = false
	p.deletingID = h.ID
	p.formType = formDelete

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", h.Name)).
				Description("All completed days of this habit are removed too.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			return p.closeForm(), nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		return p.finishForm()
	case huh.StateAborted:
		return p.closeForm(), nil
	}
	return p, cmd
}

func (p habitsModel) closeForm() habitsModel {
	if p.formType == formRename {
		p.editor.Cancel()
	}
	p.formActive = false
	p.form = nil
	p.deletingID = ""
	return p
}

// finishForm applies the submitted form through the tracker.
func (p habitsModel) finishForm() (habitsModel, tea.Cmd) {
	p.formActive = false
	p.form = nil

	ctx, cancel := callContext(p.timeout)
	defer cancel()

	switch p.formType {
	case formNew:
		h, err := p.tracker.Add(ctx, *p.formName)
		if errors.Is(err, habit.ErrEmptyName) {
			return p, nil
		}
		if err != nil {
			return p, errorCmd("Add habit", err)
		}
		p.selected = len(p.tracker.Habits()) - 1
		return p, statusCmd("Added " + h.Name)

	case formRename:
		p.editor.SetDraft(*p.formName)
		if err := p.editor.Save(ctx, p.tracker); err != nil {
			return p, errorCmd("Rename", err)
		}
		return p, nil

	case formDelete:
		id := p.deletingID
		p.deletingID = ""
		if !*p.formConfirm {
			return p, nil
		}
		err := p.tracker.Delete(ctx, id)
		p.selectBy(0)
		if err != nil {
			return p, errorCmd("Delete habit", err)
		}
		return p, statusCmd("Habit deleted")
	}
	return p, nil
}

func (p habitsModel) view(st styles) string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := "New Habit"
		switch p.formType {
		case formRename:
			title = "Rename Habit"
		case formDelete:
			title = "Delete Habit"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, st.title.Render(title), "", p.form.View())
		return st.panel.Width(w).Render(content)
	}

	if p.tracker.Loading() {
		return st.panel.Width(w).Render(st.muted.Render("Loading habits..."))
	}

	habits := p.tracker.Habits()
	yearLine := st.title.Render("Habit Tracker") + "  " +
		st.accent.Render(fmt.Sprintf("%d", p.year)) + "  " +
		st.muted.Render("[/]: year")

	if len(habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			yearLine,
			"",
			st.muted.Render("No habits added yet."),
			st.muted.Render("Press n to add one."),
		)
		return st.panel.Width(w).Render(content)
	}

	selected := clamp(p.selected, 0, len(habits)-1)
	visible := p.height / cardHeight
	if visible < 1 {
		visible = 1
	}
	start, end := window(len(habits), selected, visible)

	rows := []string{yearLine}
	for i := start; i < end; i++ {
		rows = append(rows, p.renderCard(habits[i], i == selected, st, w))
	}
	if end-start < len(habits) {
		rows = append(rows, st.muted.Render(fmt.Sprintf("  %d of %d habits  J/K: select", selected+1, len(habits))))
	}
	return strings.Join(rows, "\n")
}

func (p habitsModel) renderCard(h habit.Habit, selected bool, st styles, w int) string {
	pal := p.themes.Palette()

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render("●")
	name := st.title.Render(h.Name)
	badge := st.badge.Render(fmt.Sprintf("%d%% completed", calendar.Percentage(h.CompletedDates, p.year)))
	gap := w - 4 - lipgloss.Width(dot) - 1 - lipgloss.Width(name) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	header := dot + " " + name + strings.Repeat(" ", gap) + badge

	opts := heatmapOpts{
		year:     p.year,
		today:    p.today(),
		maxWeeks: maxWeeksFor(w),
		pal:      pal,
	}
	if selected {
		opts.cursor = calendar.DateString(p.cursor)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		renderHeatmap(h, opts),
		"",
		renderLegend(h.Color, pal),
	)

	panel := st.panel
	if selected {
		panel = st.activePanel
	}
	return panel.Width(w).Render(content)
}
