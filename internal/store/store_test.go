package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sadopc/habitmap/internal/theme"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertHabit(t *testing.T, s *Store, id, name string) {
	t.Helper()
	if err := s.InsertHabit(context.Background(), HabitRecord{ID: id, Name: name, Color: "#22c55e"}); err != nil {
		t.Fatalf("insert habit: %v", err)
	}
}

func entriesFor(t *testing.T, s *Store, habitID string) []Entry {
	t.Helper()
	all, err := s.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	var out []Entry
	for _, e := range all {
		if e.HabitID == habitID {
			out = append(out, e)
		}
	}
	return out
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/habitmap.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	insertHabit(t, s, "h1", "Read")
	s.Close()

	// Reopen: data survives and migration is not re-run.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	habits, err := s2.ListHabits(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Fatalf("habits after reopen: %+v", habits)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)
	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Habits
// ============================================================

func TestInsertAndListHabits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if err := s.InsertHabit(ctx, HabitRecord{ID: "b", Name: "Run", Color: "#ef4444", CreatedAt: first}); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertHabit(ctx, HabitRecord{ID: "a", Name: "Read", Color: "#3b82f6", CreatedAt: first.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	habits, err := s.ListHabits(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	// Creation order, not id order.
	if habits[0].ID != "b" || habits[1].ID != "a" {
		t.Fatalf("unexpected order: %s, %s", habits[0].ID, habits[1].ID)
	}
	if habits[0].Color != "#ef4444" || !habits[0].CreatedAt.Equal(first) {
		t.Fatalf("unexpected record: %+v", habits[0])
	}
}

func TestListHabitsEmpty(t *testing.T) {
	s := newTestStore(t)
	habits, err := s.ListHabits(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if habits != nil {
		t.Fatalf("expected nil slice, got %d items", len(habits))
	}
}

func TestInsertHabitDuplicateID(t *testing.T) {
	s := newTestStore(t)
	insertHabit(t, s, "dup", "One")
	err := s.InsertHabit(context.Background(), HabitRecord{ID: "dup", Name: "Two"})
	if err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestRenameHabit(t *testing.T) {
	s := newTestStore(t)
	insertHabit(t, s, "h1", "Old")
	if err := s.RenameHabit(context.Background(), "h1", "New"); err != nil {
		t.Fatal(err)
	}
	habits, _ := s.ListHabits(context.Background())
	if habits[0].Name != "New" {
		t.Fatalf("rename failed: %+v", habits[0])
	}
}

func TestRenameHabitNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.RenameHabit(context.Background(), "missing", "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteHabitRequiresEntriesGone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertHabit(t, s, "h1", "Read")
	s.InsertEntry(ctx, Entry{HabitID: "h1", Date: "2024-01-01", Completed: true})

	if err := s.DeleteHabit(ctx, "h1"); err == nil {
		t.Fatal("foreign key should block deleting a habit with entries")
	}
	if err := s.DeleteEntries(ctx, "h1"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteHabit(ctx, "h1"); err != nil {
		t.Fatal(err)
	}
	habits, _ := s.ListHabits(ctx)
	if len(habits) != 0 {
		t.Fatal("habit should be gone")
	}
}

func TestDeleteHabitNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteHabit(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Entries
// ============================================================

func TestInsertEntryIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertHabit(t, s, "h1", "Read")

	for i := 0; i < 3; i++ {
		if err := s.InsertEntry(ctx, Entry{HabitID: "h1", Date: "2024-03-01", Completed: true}); err != nil {
			t.Fatal(err)
		}
	}
	entries := entriesFor(t, s, "h1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Completed || entries[0].Date != "2024-03-01" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestInsertEntryUnknownHabit(t *testing.T) {
	s := newTestStore(t)
	err := s.InsertEntry(context.Background(), Entry{HabitID: "ghost", Date: "2024-03-01", Completed: true})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestDeleteEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertHabit(t, s, "h1", "Read")
	s.InsertEntry(ctx, Entry{HabitID: "h1", Date: "2024-03-01", Completed: true})
	s.InsertEntry(ctx, Entry{HabitID: "h1", Date: "2024-03-02", Completed: true})

	if err := s.DeleteEntry(ctx, "h1", "2024-03-01"); err != nil {
		t.Fatal(err)
	}
	entries := entriesFor(t, s, "h1")
	if len(entries) != 1 || entries[0].Date != "2024-03-02" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	// Deleting a missing entry is not an error.
	if err := s.DeleteEntry(ctx, "h1", "2020-01-01"); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteEntriesOnlyTouchesOneHabit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertHabit(t, s, "x", "X")
	insertHabit(t, s, "y", "Y")
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		s.InsertEntry(ctx, Entry{HabitID: "x", Date: d, Completed: true})
	}
	s.InsertEntry(ctx, Entry{HabitID: "y", Date: "2024-01-01", Completed: true})

	if err := s.DeleteEntries(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if n := len(entriesFor(t, s, "x")); n != 0 {
		t.Fatalf("x has %d entries left", n)
	}
	if n := len(entriesFor(t, s, "y")); n != 1 {
		t.Fatalf("y has %d entries, want 1", n)
	}
}

func TestToggleEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertHabit(t, s, "h1", "Read")

	done, err := s.ToggleEntry(ctx, "h1", "2024-05-05")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("first toggle should complete the day")
	}
	if n := len(entriesFor(t, s, "h1")); n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}

	done, err = s.ToggleEntry(ctx, "h1", "2024-05-05")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Fatal("second toggle should clear the day")
	}
	if n := len(entriesFor(t, s, "h1")); n != 0 {
		t.Fatalf("entries = %d, want 0", n)
	}
}

func TestToggleEntryUnknownHabitRollsBack(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ToggleEntry(context.Background(), "ghost", "2024-05-05"); err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestToggleEntryConcurrent(t *testing.T) {
	s := newTestStore(t)
	insertHabit(t, s, "h1", "Read")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ToggleEntry(context.Background(), "h1", "2024-05-05"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent toggle: %v", err)
	}
	if n := len(entriesFor(t, s, "h1")); n != 0 {
		t.Fatalf("entries after 8 toggles = %d, want 0", n)
	}
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ListHabits(ctx); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	v, err := s.GetSetting("theme")
	if err != nil {
		t.Fatal(err)
	}
	if v != "light" {
		t.Fatalf("theme = %q, want light", v)
	}
}

func TestSetSettingUpsert(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("custom", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting("custom", "2"); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetSetting("custom")
	if v != "2" {
		t.Fatalf("custom = %q, want 2", v)
	}
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Key != "custom" || all[1].Key != "theme" {
		t.Fatalf("unexpected settings: %+v", all)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestThemePersister(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := theme.NewProvider(ctx, s)
	if p.Theme() != theme.Light {
		t.Fatalf("default theme = %s", p.Theme())
	}
	if _, err := p.Toggle(ctx); err != nil {
		t.Fatal(err)
	}

	reloaded := theme.NewProvider(ctx, s)
	if reloaded.Theme() != theme.Dark {
		t.Fatalf("reloaded theme = %s, want dark", reloaded.Theme())
	}
}
