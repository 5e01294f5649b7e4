package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/habitmap/internal/habit"
	"github.com/sadopc/habitmap/internal/keyring"
	"github.com/sadopc/habitmap/internal/logger"
	"github.com/sadopc/habitmap/internal/pgstore"
	"github.com/sadopc/habitmap/internal/store"
	"github.com/sadopc/habitmap/internal/theme"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Backend is a data service the commands run against. Both store.Store and
// pgstore.Store satisfy it; toggles always go through the atomic path.
type Backend interface {
	habit.Repository
	habit.Toggler
	theme.Persister
	Close() error
}

// Options are the global flags that shape a Context.
type Options struct {
	DB        string
	Colors    string
	Timeout   time.Duration
	ExportDir string
}

type Context struct {
	Store     Backend
	Tracker   *habit.Tracker
	Themes    *theme.Provider
	Backend   string
	Colors    string
	Timeout   time.Duration
	ExportDir string
	Now       func() time.Time
	Out       io.Writer
	// LoadErr holds the initial load failure. The tracker is then empty;
	// the TUI starts anyway while one-shot commands refuse to run.
	LoadErr error
}

// Open connects to the backend named by opts.DB: a postgres:// URL selects
// PostgreSQL, anything else is a SQLite path. The habits and the saved theme
// are loaded before it returns; a failed habit load is kept in LoadErr.
func Open(opts Options) (*Context, error) {
	if opts.DB == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		opts.DB = path
	}

	ctx, cancel := withTimeout(opts.Timeout)
	defer cancel()

	b, name, err := openBackend(ctx, opts.DB)
	if err != nil {
		return nil, err
	}
	c, err := NewContext(b, name, opts)
	if err != nil {
		b.Close()
		return nil, err
	}
	return c, nil
}

func openBackend(ctx context.Context, db string) (Backend, string, error) {
	if pgstore.IsURL(db) {
		s := pgstore.New(db, pgstore.WithPassword(keyring.Password))
		if err := s.Open(ctx); err != nil {
			return nil, "", fmt.Errorf("open postgres store: %w", err)
		}
		return s, BackendPostgres, nil
	}

	s, err := store.New(expandHome(db))
	if err != nil {
		return nil, "", err
	}
	return s, BackendSQLite, nil
}

// NewContext builds a Context over an already opened backend and loads it.
// A failed load is not an error here: it is kept in LoadErr.
func NewContext(b Backend, name string, opts Options, trackerOpts ...habit.Option) (*Context, error) {
	policy, err := habit.ParseColorPolicy(opts.Colors)
	if err != nil {
		return nil, err
	}
	colors := opts.Colors
	if colors == "" {
		colors = "random"
	}

	c := &Context{
		Store:     b,
		Tracker:   habit.NewTracker(b, append([]habit.Option{habit.WithColors(policy)}, trackerOpts...)...),
		Backend:   name,
		Colors:    colors,
		Timeout:   opts.Timeout,
		ExportDir: opts.ExportDir,
		Now:       time.Now,
		Out:       os.Stdout,
	}

	ctx, cancel := c.call()
	defer cancel()
	if err := c.Tracker.Load(ctx); err != nil {
		c.LoadErr = fmt.Errorf("load habits: %w", err)
		logger.Warn("Starting with an empty habit list", "error", err)
	}
	c.Themes = theme.NewProvider(ctx, b)
	logger.Debug("Opened store", "backend", name, "habits", len(c.Tracker.Habits()))
	return c, nil
}

func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// call returns the context for one data-service call.
func (c *Context) call() (context.Context, context.CancelFunc) {
	return withTimeout(c.Timeout)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now()
}

// lookup resolves ref as an id, then as an exact name.
func (c *Context) lookup(ref string) (habit.Habit, error) {
	if h, ok := c.Tracker.Find(ref); ok {
		return h, nil
	}
	for _, h := range c.Tracker.Habits() {
		if h.Name == ref {
			return h, nil
		}
	}
	return habit.Habit{}, fmt.Errorf("%w: %s", habit.ErrNotFound, ref)
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Format renders err the way every command failure is printed.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}
