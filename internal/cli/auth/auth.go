package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "realestate-cli"
)

// ErrNotLoggedIn is returned when no session is stored for a server
var ErrNotLoggedIn = errors.New("not authenticated. Please run 'sitectl login' first")

// SessionStore persists session cookies per server.
// This allows us to swap the keyring out in tests.
type SessionStore interface {
	SaveSession(server, cookie string) error
	LoadSession(server string) (string, error)
	DeleteSession(server string) error
}

// Keyring stores sessions in the OS keychain/credential manager
type Keyring struct{}

// Default is the production session store
var Default SessionStore = Keyring{}

// keyringKey returns a unique key for storing sessions per server
func keyringKey(server string) string {
	return fmt.Sprintf("session-%s", server)
}

// SaveSession persists the session cookie securely
func (Keyring) SaveSession(server, cookie string) error {
	if err := keyring.Set(service, keyringKey(server), cookie); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession retrieves the session cookie
func (Keyring) LoadSession(server string) (string, error) {
	cookie, err := keyring.Get(service, keyringKey(server))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return cookie, nil
}

// DeleteSession removes the session cookie
func (Keyring) DeleteSession(server string) error {
	if err := keyring.Delete(service, keyringKey(server)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
