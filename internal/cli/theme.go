package cli

import (
	"fmt"

	"github.com/sadopc/habitmap/internal/theme"
)

type ThemeCmd struct {
	Value string `arg:"" optional:"" help:"light, dark or toggle. Prints the current theme when omitted."`
}

func (c *ThemeCmd) Run(ctx *Context) error {
	if c.Value == "" {
		ctx.printf("%s\n", ctx.Themes.Theme())
		return nil
	}

	call, cancel := ctx.call()
	defer cancel()

	if c.Value == "toggle" {
		next, err := ctx.Themes.Toggle(call)
		if err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
		ctx.printf("Theme: %s\n", next)
		return nil
	}

	t, err := theme.Parse(c.Value)
	if err != nil {
		return err
	}
	if err := ctx.Themes.Set(call, t); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	ctx.printf("Theme: %s\n", t)
	return nil
}
