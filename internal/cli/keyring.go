package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/habitmap/internal/keyring"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL password in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored PostgreSQL password."`
}

// KeyringSetCmd stores the password used for postgres:// connections. It is
// read from a masked prompt when not given as an argument.
type KeyringSetCmd struct {
	Password string `arg:"" optional:"" help:"Password to store (prompted for when omitted)."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	pw := c.Password
	if pw == "" {
		err := huh.NewInput().
			Title("PostgreSQL password").
			EchoMode(huh.EchoModePassword).
			Value(&pw).
			Run()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	if err := keyring.SetPassword(pw); err != nil {
		return err
	}
	ctx.printf("Password stored in the OS keyring\n")
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeletePassword(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no password stored in the OS keyring")
		}
		return err
	}
	ctx.printf("Password removed from the OS keyring\n")
	return nil
}
