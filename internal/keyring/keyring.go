// Package keyring stores the PostgreSQL password in the OS keyring so the
// connection string itself never carries it.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "habitmap"
	user    = "postgres"
)

var (
	// ErrNotFound is returned when no password is stored.
	ErrNotFound = errors.New("password not found in keyring")
	// ErrUnavailable is returned when the OS keyring cannot be reached.
	ErrUnavailable = errors.New("OS keyring is not available")
)

// Password returns the stored PostgreSQL password.
func Password() (string, error) {
	pw, err := keyring.Get(service, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return pw, nil
}

func SetPassword(pw string) error {
	if pw == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(service, user, pw); err != nil {
		return fmt.Errorf("store password in keyring: %w", err)
	}
	return nil
}

func DeletePassword() error {
	err := keyring.Delete(service, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete password from keyring: %w", err)
	}
	return nil
}
