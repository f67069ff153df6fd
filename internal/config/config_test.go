package config

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"
)

// fakeKeyring is an in-memory keyring for tests.
type fakeKeyring struct {
	items map[string]keyring.Item
}

func newFakeKeyring() *fakeKeyring {
	return &fakeKeyring{items: map[string]keyring.Item{}}
}

func (f *fakeKeyring) Get(key string) (keyring.Item, error) {
	item, ok := f.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

func (f *fakeKeyring) GetMetadata(key string) (keyring.Metadata, error) {
	if _, ok := f.items[key]; !ok {
		return keyring.Metadata{}, keyring.ErrKeyNotFound
	}
	return keyring.Metadata{}, nil
}

func (f *fakeKeyring) Set(item keyring.Item) error {
	f.items[item.Key] = item
	return nil
}

func (f *fakeKeyring) Remove(key string) error {
	if _, ok := f.items[key]; !ok {
		return keyring.ErrKeyNotFound
	}
	delete(f.items, key)
	return nil
}

func (f *fakeKeyring) Keys() ([]string, error) {
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	return keys, nil
}

func useFakeKeyring(t *testing.T) *fakeKeyring {
	t.Helper()
	fake := newFakeKeyring()
	restore := SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return fake, nil
	})
	t.Cleanup(restore)
	return fake
}

func TestSaveLoadDeleteAccount(t *testing.T) {
	useFakeKeyring(t)

	account := Account{
		Endpoint:  "https://myapp.azurewebsites.net",
		UserID:    "sid:1234",
		AuthToken: "zumo-token",
	}
	require.NoError(t, SaveAccount(account))

	loaded, err := LoadAccount()
	require.NoError(t, err)
	require.Equal(t, account, loaded)

	require.NoError(t, DeleteAccount())

	_, err = LoadAccount()
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadAccountNotConfigured(t *testing.T) {
	useFakeKeyring(t)

	_, err := LoadAccount()
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestDeleteAccountIdempotent(t *testing.T) {
	useFakeKeyring(t)
	require.NoError(t, DeleteAccount())
}

func TestLoadAccountEnvOverride(t *testing.T) {
	restore := SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return nil, errors.New("keyring must not be opened when env override is set")
	})
	t.Cleanup(restore)

	t.Setenv("ZUMO_ENDPOINT", "https://env.azurewebsites.net")
	t.Setenv("ZUMO_AUTH_TOKEN", "env-token")

	account, err := LoadAccount()
	require.NoError(t, err)
	require.Equal(t, "https://env.azurewebsites.net", account.Endpoint)
	require.Equal(t, "env-token", account.AuthToken)
}

func TestInstallationIDStable(t *testing.T) {
	useFakeKeyring(t)

	first, err := InstallationID()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := InstallationID()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestInstallationIDSurvivesLogout(t *testing.T) {
	useFakeKeyring(t)

	require.NoError(t, SaveAccount(Account{Endpoint: "https://x.azurewebsites.net"}))
	id, err := InstallationID()
	require.NoError(t, err)

	require.NoError(t, DeleteAccount())

	after, err := InstallationID()
	require.NoError(t, err)
	require.Equal(t, id, after)
}
