// Package credentials stores service passwords for the mins CLI in the
// system keyring (macOS Keychain, Windows Credential Manager, Linux Secret
// Service), with an environment-variable fallback for CI.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
)

// keyringService is the service name used in the system keyring.
const keyringService = "mins-cli"

// Known credential names.
const (
	DatabasePassword = "database-password"
	RedisPassword    = "redis-password"
)

// ErrKeyringUnavailable indicates the system keyring is not available.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

// Store is the credential storage surface.
type Store interface {
	// Get returns the named secret. Returns ErrNotFound when absent.
	Get(name string) (string, error)

	// Set stores the named secret.
	Set(name, secret string) error

	// Delete removes the named secret. Returns ErrNotFound when absent.
	Delete(name string) error

	// Description returns a human-readable description of the storage
	// mechanism, for the doctor command.
	Description() string
}

// KeyringStore stores secrets in the system keyring.
type KeyringStore struct {
	mu sync.Mutex
}

// NewKeyringStore creates a keyring-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Get retrieves a secret from the keyring.
func (s *KeyringStore) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret, err := keyring.Get(keyringService, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("credential %s: %w", name, mnerrors.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret in the keyring.
func (s *KeyringStore) Set(name, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := keyring.Set(keyringService, name, secret); err != nil {
		return fmt.Errorf("%w: storing %s: %v", ErrKeyringUnavailable, name, err)
	}
	return nil
}

// Delete removes a secret from the keyring.
func (s *KeyringStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := keyring.Delete(keyringService, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("credential %s: %w", name, mnerrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: deleting %s: %v", ErrKeyringUnavailable, name, err)
	}
	return nil
}

// Description returns a description of this store.
func (s *KeyringStore) Description() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain"
	case "windows":
		return "Windows Credential Manager"
	default:
		return "System Keyring (Secret Service)"
	}
}

// EnvStore reads secrets from environment variables. Primarily for CI; Set
// and Delete are not supported.
type EnvStore struct{}

// NewEnvStore creates an environment-backed store.
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// EnvVarFor maps a credential name to its environment variable:
// "database-password" becomes MINS_DATABASE_PASSWORD.
func EnvVarFor(name string) string {
	return "MINS_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Get returns the secret from the mapped environment variable.
func (s *EnvStore) Get(name string) (string, error) {
	secret := os.Getenv(EnvVarFor(name))
	if secret == "" {
		return "", fmt.Errorf("credential %s (%s unset): %w", name, EnvVarFor(name), mnerrors.ErrNotFound)
	}
	return secret, nil
}

// Set is not supported for environment-based secrets.
func (s *EnvStore) Set(name, secret string) error {
	return fmt.Errorf("cannot store %s in environment-based credential store", name)
}

// Delete is not supported for environment-based secrets.
func (s *EnvStore) Delete(name string) error {
	return fmt.Errorf("cannot delete %s from environment-based credential store", name)
}

// Description returns a description of this store.
func (s *EnvStore) Description() string {
	return "Environment variables (MINS_*)"
}

// GetDefaultStore returns the credential store for the current environment.
// Environment variables win when the relevant one is set, so CI never
// touches the keyring.
func GetDefaultStore() Store {
	if os.Getenv(EnvVarFor(DatabasePassword)) != "" || os.Getenv(EnvVarFor(RedisPassword)) != "" {
		return NewEnvStore()
	}
	return NewKeyringStore()
}

// Lookup fetches a secret, treating "not found" as an empty secret. Used
// where a password is optional.
func Lookup(s Store, name string) (string, error) {
	secret, err := s.Get(name)
	if mnerrors.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

// IsKeyringAvailable checks if the system keyring is accessible.
func IsKeyringAvailable() bool {
	_, err := keyring.Get(keyringService, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
