// Package config stores the zumo CLI's backend credentials and the
// per-device installation id in the OS keychain, with an encrypted
// file fallback for headless environments.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"github.com/google/uuid"
)

const (
	serviceName       = "zumo-cli"
	accountKey        = "account"
	installationIDKey = "installation_id"

	envEndpoint        = "ZUMO_ENDPOINT"
	envAuthToken       = "ZUMO_AUTH_TOKEN"
	envKeyringBackend  = "ZUMO_KEYRING_BACKEND"
	envKeyringPassword = "ZUMO_KEYRING_PASSWORD"
	envCredentialsDir  = "ZUMO_CREDENTIALS_DIR"

	keyringBackendAuto = "auto"
	keyringBackendFile = "file"
)

// openKeyring opens the keyring. Replaceable in tests.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring replaces the keyring opener for testing and returns a
// cleanup function restoring the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Account holds the backend connection details.
type Account struct {
	Endpoint  string `json:"endpoint"`
	UserID    string `json:"user_id,omitempty"`
	AuthToken string `json:"auth_token,omitempty"`
}

// ErrNotConfigured is returned when no account is stored.
var ErrNotConfigured = errors.New("zumo not configured - run 'zumo auth login' first")

func keyringConfig() keyring.Config {
	cfg := keyring.Config{ServiceName: serviceName}

	backend := keyringBackendMode()
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword

	// Headless Linux bypasses dbus-backed stores for encrypted files.
	if forceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case keyringBackendFile:
		return keyringBackendFile
	default:
		return keyringBackendAuto
	}
}

func forceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func keyringFileDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		}
	}
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".config", serviceName)
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPassword); strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using the file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

// SaveAccount stores the account credentials.
func SaveAccount(account Account) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	return ring.Set(keyring.Item{Key: accountKey, Data: data})
}

// LoadAccount retrieves the stored account. ZUMO_ENDPOINT and
// ZUMO_AUTH_TOKEN override the keychain when set, so CI and scripts
// can run without a stored login.
func LoadAccount() (Account, error) {
	if endpoint := strings.TrimSpace(os.Getenv(envEndpoint)); endpoint != "" {
		return Account{
			Endpoint:  endpoint,
			AuthToken: strings.TrimSpace(os.Getenv(envAuthToken)),
		}, nil
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return Account{}, fmt.Errorf("failed to open keyring: %w", err)
	}
	item, err := ring.Get(accountKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Account{}, ErrNotConfigured
		}
		return Account{}, fmt.Errorf("failed to read account: %w", err)
	}

	var account Account
	if err := json.Unmarshal(item.Data, &account); err != nil {
		return Account{}, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	if account.Endpoint == "" {
		return Account{}, ErrNotConfigured
	}
	return account, nil
}

// DeleteAccount removes the stored credentials. The installation id is
// kept: it identifies the device, not the session.
func DeleteAccount() error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Remove(accountKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove account: %w", err)
	}
	return nil
}

// InstallationID returns the per-device installation identifier,
// generating and persisting one on first use.
func InstallationID() (string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return "", fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(installationIDKey)
	if err == nil && len(item.Data) > 0 {
		return string(item.Data), nil
	}
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("failed to read installation id: %w", err)
	}

	id := uuid.NewString()
	if err := ring.Set(keyring.Item{Key: installationIDKey, Data: []byte(id)}); err != nil {
		return "", fmt.Errorf("failed to persist installation id: %w", err)
	}
	return id, nil
}
