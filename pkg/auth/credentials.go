// Package auth manages provider credentials for geofetch.
//
// Credentials are always explicit values threaded through every call; no
// package in this repository reads them from process-wide mutable state. The
// stores in this package only serve the CLI, which resolves an Account once
// and hands its Credentials to the retriever.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Credential store errors
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)

// Credentials is the opaque key pair required to authenticate to a provider.
type Credentials struct {
	ConsumerKey string `json:"consumer_key" yaml:"consumer_key"`
	AccessToken string `json:"access_token" yaml:"access_token"`
}

// Complete reports whether both required fields are present.
func (c Credentials) Complete() bool {
	return c.ConsumerKey != "" && c.AccessToken != ""
}

// Account is a named, stored credential pair for one source.
type Account struct {
	Name         string      `json:"name"`
	Source       string      `json:"source"`
	Credentials  Credentials `json:"credentials"`
	LastModified time.Time   `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving credentials.
type CredentialStore interface {
	// Store saves an account
	Store(account *Account) error

	// Retrieve gets the account with the given name
	Retrieve(name string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes the account with the given name
	Delete(name string) error

	// Exists checks if an account with the given name is stored
	Exists(name string) bool
}

// Manager handles credential storage with fallback mechanisms.
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager backed by the system keychain when
// available, an encrypted file, and finally the environment.
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager with an explicit store chain.
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves an account using the first store that accepts it.
func (m *Manager) Store(account *Account) error {
	if account == nil || account.Name == "" {
		return ErrInvalidCredentials
	}
	if !account.Credentials.Complete() {
		return ErrInvalidCredentials
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("all credential stores failed: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets an account from the first store that has it.
func (m *Manager) Retrieve(name string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(name); err == nil {
			return account, nil
		}
	}
	return nil, ErrCredentialsNotFound
}

// List returns all stored accounts across stores, first store wins on
// duplicate names.
func (m *Manager) List() ([]*Account, error) {
	seen := make(map[string]bool)
	var accounts []*Account

	for _, store := range m.stores {
		stored, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range stored {
			if !seen[account.Name] {
				seen[account.Name] = true
				accounts = append(accounts, account)
			}
		}
	}

	return accounts, nil
}

// Delete removes an account from every store holding it.
func (m *Manager) Delete(name string) error {
	deleted := false
	for _, store := range m.stores {
		if store.Exists(name) {
			if err := store.Delete(name); err == nil {
				deleted = true
			}
		}
	}

	if !deleted {
		return ErrCredentialsNotFound
	}
	return nil
}

// getConfigDir returns the geofetch configuration directory, creating it if
// needed.
func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "geofetch")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
