package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and mainly serves CI and one-off invocations.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables.
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from TWITTER_CONSUMER_KEY and
// TWITTER_ACCESS_TOKEN. The environment holds a single unnamed account, so
// any requested name matches.
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	creds := Credentials{
		ConsumerKey: os.Getenv("TWITTER_CONSUMER_KEY"),
		AccessToken: os.Getenv("TWITTER_ACCESS_TOKEN"),
	}

	if !creds.Complete() {
		return nil, ErrCredentialsNotFound
	}

	if name == "" {
		name = "default"
	}

	return &Account{
		Name:         name,
		Source:       "twitter",
		Credentials:  creds,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account when environment variables are set.
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables.
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks whether environment credentials are present.
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
