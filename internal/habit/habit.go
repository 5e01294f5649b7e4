// Package habit keeps the in-memory habit list and mirrors every change to
// a Repository. Writes go to the repository first; local state only changes
// once the write has succeeded.
package habit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/habitmap/internal/calendar"
	"github.com/sadopc/habitmap/internal/logger"
	"github.com/sadopc/habitmap/internal/store"
)

var (
	ErrNotFound  = errors.New("habit not found")
	ErrEmptyName = errors.New("habit name is empty")
)

// Repository is the data service holding the habits and habit_entries tables.
type Repository interface {
	ListHabits(ctx context.Context) ([]store.HabitRecord, error)
	InsertHabit(ctx context.Context, h store.HabitRecord) error
	RenameHabit(ctx context.Context, id, name string) error
	DeleteHabit(ctx context.Context, id string) error
	ListEntries(ctx context.Context) ([]store.Entry, error)
	InsertEntry(ctx context.Context, e store.Entry) error
	DeleteEntry(ctx context.Context, habitID, date string) error
	DeleteEntries(ctx context.Context, habitID string) error
}

type Habit struct {
	ID             string
	Name           string
	Color          string
	CompletedDates calendar.DateSet
	CreatedAt      time.Time
}

type Tracker struct {
	repo    Repository
	colors  ColorPolicy
	newID   func() string
	now     func() time.Time
	habits  []Habit
	loading bool
}

type Option func(*Tracker)

func WithColors(p ColorPolicy) Option {
	return func(t *Tracker) { t.colors = p }
}

func WithIDs(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(t *Tracker) { t.now = fn }
}

func NewTracker(repo Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:   repo,
		colors: RandomColors{},
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Habits returns a snapshot of the list. Date sets are replaced rather than
// mutated on toggle, so a snapshot never changes under the caller.
func (t *Tracker) Habits() []Habit {
	out := make([]Habit, len(t.habits))
	copy(out, t.habits)
	return out
}

func (t *Tracker) Find(id string) (Habit, bool) {
	i := t.index(id)
	if i < 0 {
		return Habit{}, false
	}
	return t.habits[i], true
}

func (t *Tracker) Loading() bool { return t.loading }

func (t *Tracker) index(id string) int {
	for i, h := range t.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Load replaces the list with the repository contents. On any read failure
// the list is left empty.
func (t *Tracker) Load(ctx context.Context) error {
	t.loading = true
	defer func() { t.loading = false }()

	habits, err := t.load(ctx)
	if err != nil {
		t.habits = nil
		logger.Error("Loading habits failed", "error", err)
		return err
	}
	t.habits = habits
	logger.Debug("Loaded habits", "count", len(habits))
	return nil
}

func (t *Tracker) load(ctx context.Context) ([]Habit, error) {
	records, err := t.repo.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := t.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	dates := make(map[string]calendar.DateSet, len(records))
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		if dates[e.HabitID] == nil {
			dates[e.HabitID] = calendar.NewDateSet()
		}
		dates[e.HabitID].Add(e.Date)
	}

	habits := make([]Habit, 0, len(records))
	for _, r := range records {
		color := r.Color
		if color == "" {
			color = t.colors.Pick(r.Name)
		}
		set := dates[r.ID]
		if set == nil {
			set = calendar.NewDateSet()
		}
		habits = append(habits, Habit{
			ID:             r.ID,
			Name:           r.Name,
			Color:          color,
			CompletedDates: set,
			CreatedAt:      r.CreatedAt,
		})
	}
	return habits, nil
}

// Add creates a habit named name (trimmed). A blank name changes nothing and
// returns ErrEmptyName.
func (t *Tracker) Add(ctx context.Context, name string) (Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Habit{}, ErrEmptyName
	}

	h := Habit{
		ID:             t.newID(),
		Name:           name,
		Color:          t.colors.Pick(name),
		CompletedDates: calendar.NewDateSet(),
		CreatedAt:      t.now(),
	}
	err := t.repo.InsertHabit(ctx, store.HabitRecord{
		ID:        h.ID,
		Name:      h.Name,
		Color:     h.Color,
		CreatedAt: h.CreatedAt,
	})
	if err != nil {
		logger.Error("Adding habit failed", "name", name, "error", err)
		return Habit{}, err
	}

	t.habits = append(t.habits, h)
	logger.Info("Added habit", "id", h.ID, "name", h.Name)
	return h, nil
}

// Delete purges the habit's entries, then the habit. If the second step
// fails the habit stays (locally and remotely) with no completed days.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	i := t.index(id)

	if err := t.repo.DeleteEntries(ctx, id); err != nil {
		logger.Error("Deleting habit entries failed", "id", id, "error", err)
		return err
	}
	if i >= 0 {
		t.habits[i].CompletedDates = calendar.NewDateSet()
	}

	if err := t.repo.DeleteHabit(ctx, id); err != nil {
		logger.Error("Deleting habit failed, entries already removed", "id", id, "error", err)
		return err
	}

	if i >= 0 {
		t.habits = append(t.habits[:i:i], t.habits[i+1:]...)
	}
	logger.Info("Deleted habit", "id", id)
	return nil
}

// Rename sets a new (trimmed) name. A blank name is a no-op.
func (t *Tracker) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := t.repo.RenameHabit(ctx, id, name); err != nil {
		logger.Error("Renaming habit failed", "id", id, "error", err)
		return err
	}
	if i := t.index(id); i >= 0 {
		t.habits[i].Name = name
	}
	return nil
}

// Toggler is implemented by repositories that can flip an entry in one
// atomic step. Both bundled stores do.
type Toggler interface {
	ToggleEntry(ctx context.Context, habitID, date string) (bool, error)
}

// Toggle flips completion of date for habit id and reports whether the day
// is completed afterwards.
//
// With a Toggler repository the stored row decides the direction and the
// local set is reconciled to the result. Otherwise the direction comes from
// the in-memory list, so two sessions toggling the same cell at once are not
// coordinated.
func (t *Tracker) Toggle(ctx context.Context, id, date string) (bool, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return false, err
	}
	i := t.index(id)
	if i < 0 {
		logger.Warn("Toggle on unknown habit", "id", id)
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	completed := t.habits[i].CompletedDates.Has(date)
	var done bool
	var err error
	if tg, ok := t.repo.(Toggler); ok {
		done, err = tg.ToggleEntry(ctx, id, date)
	} else {
		done, err = !completed, t.flip(ctx, id, date, completed)
	}
	if err != nil {
		logger.Error("Toggling habit completion failed", "id", id, "date", date, "error", err)
		return completed, err
	}

	if done != completed {
		next := t.habits[i].CompletedDates.Clone()
		if done {
			next.Add(date)
		} else {
			next.Remove(date)
		}
		t.habits[i].CompletedDates = next
	}
	return done, nil
}

func (t *Tracker) flip(ctx context.Context, id, date string, completed bool) error {
	if completed {
		return t.repo.DeleteEntry(ctx, id, date)
	}
	return t.repo.InsertEntry(ctx, store.Entry{HabitID: id, Date: date, Completed: true})
}
