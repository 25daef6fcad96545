package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(name string) *Account {
	return &Account{
		Name:   name,
		Source: "twitter",
		Credentials: Credentials{
			ConsumerKey: "key-" + name,
			AccessToken: "token-" + name,
		},
	}
}

func TestCredentialsComplete(t *testing.T) {
	assert.False(t, Credentials{}.Complete())
	assert.False(t, Credentials{ConsumerKey: "key"}.Complete())
	assert.False(t, Credentials{AccessToken: "token"}.Complete())
	assert.True(t, Credentials{ConsumerKey: "key", AccessToken: "token"}.Complete())
}

func TestManagerStoreAndRetrieve(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	require.NoError(t, manager.Store(testAccount("primary")))

	account, err := manager.Retrieve("primary")
	require.NoError(t, err)
	assert.Equal(t, "key-primary", account.Credentials.ConsumerKey)
	assert.False(t, account.LastModified.IsZero())
}

func TestManagerRejectsIncompleteAccounts(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	assert.ErrorIs(t, manager.Store(nil), ErrInvalidCredentials)
	assert.ErrorIs(t, manager.Store(&Account{Name: "x"}), ErrInvalidCredentials)
	assert.ErrorIs(t, manager.Store(&Account{
		Name:        "x",
		Credentials: Credentials{ConsumerKey: "only-key"},
	}), ErrInvalidCredentials)
}

func TestManagerFallbackChain(t *testing.T) {
	broken := NewMockStore()
	broken.FailStore = true
	working := NewMockStore()
	manager := NewManagerWithStores(broken, working)

	require.NoError(t, manager.Store(testAccount("primary")))
	assert.False(t, broken.Exists("primary"))
	assert.True(t, working.Exists("primary"))

	_, err := manager.Retrieve("missing")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerListDeduplicates(t *testing.T) {
	first := NewMockStore()
	second := NewMockStore()
	require.NoError(t, first.Store(testAccount("shared")))
	require.NoError(t, second.Store(testAccount("shared")))
	require.NoError(t, second.Store(testAccount("extra")))

	manager := NewManagerWithStores(first, second)
	accounts, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestManagerDelete(t *testing.T) {
	store := NewMockStore()
	require.NoError(t, store.Store(testAccount("primary")))
	manager := NewManagerWithStores(store)

	require.NoError(t, manager.Delete("primary"))
	assert.False(t, store.Exists("primary"))
	assert.ErrorIs(t, manager.Delete("primary"), ErrCredentialsNotFound)
}

func TestEncryptedStoreRoundTrip(t *testing.T) {
	t.Setenv("GEOFETCH_PASSPHRASE", "test-passphrase")

	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Store(testAccount("primary")))
	assert.True(t, store.Exists("primary"))

	// A fresh store instance must decrypt what the first one wrote.
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	account, err := reopened.Retrieve("primary")
	require.NoError(t, err)
	assert.Equal(t, "token-primary", account.Credentials.AccessToken)

	accounts, err := reopened.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, reopened.Delete("primary"))
	_, err = reopened.Retrieve("primary")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv("GEOFETCH_PASSPHRASE", "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(testAccount("primary")))

	t.Setenv("GEOFETCH_PASSPHRASE", "second")
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	_, err = reopened.Retrieve("primary")
	assert.Error(t, err)
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("TWITTER_CONSUMER_KEY", "env-key")
	t.Setenv("TWITTER_ACCESS_TOKEN", "env-token")

	store := NewEnvironmentStore()
	account, err := store.Retrieve("anything")
	require.NoError(t, err)
	assert.Equal(t, "env-key", account.Credentials.ConsumerKey)
	assert.True(t, store.Exists(""))

	assert.ErrorIs(t, store.Store(testAccount("x")), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("x"), ErrStoreUnavailable)

	t.Setenv("TWITTER_ACCESS_TOKEN", "")
	_, err = store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}
