// Package theme holds the light/dark appearance choice and its palettes.
// The current theme lives in a Provider that callers pass around; where it
// is stored is up to the injected Persister.
package theme

import (
	"context"
	"fmt"

	"github.com/sadopc/habitmap/internal/logger"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	}
	return Light, fmt.Errorf("unknown theme %q", s)
}

func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type Persister interface {
	LoadTheme(ctx context.Context) (Theme, error)
	SaveTheme(ctx context.Context, t Theme) error
}

type Provider struct {
	current Theme
	store   Persister
}

// NewProvider loads the saved theme, falling back to Light. A nil store
// keeps the theme in memory only.
func NewProvider(ctx context.Context, store Persister) *Provider {
	p := &Provider{current: Light, store: store}
	if store == nil {
		return p
	}
	t, err := store.LoadTheme(ctx)
	if err != nil {
		logger.Warn("Loading theme failed", "error", err)
		return p
	}
	p.current = t
	return p
}

func (p *Provider) Theme() Theme { return p.current }

func (p *Provider) Palette() Palette { return PaletteFor(p.current) }

// Toggle flips the theme and persists it. The switch takes effect even when
// saving fails; the error is returned so callers can report it.
func (p *Provider) Toggle(ctx context.Context) (Theme, error) {
	next := p.current.Toggled()
	err := p.Set(ctx, next)
	return next, err
}

func (p *Provider) Set(ctx context.Context, t Theme) error {
	p.current = t
	if p.store == nil {
		return nil
	}
	if err := p.store.SaveTheme(ctx, t); err != nil {
		logger.Error("Saving theme failed", "theme", t, "error", err)
		return err
	}
	return nil
}
