// Package keyring keeps the spreadsheet service account key in the OS
// keyring so it does not have to live in the config file.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// Service is the keyring service name.
	Service = "spt"
	// CredentialsUser is the keyring entry holding the service account key.
	CredentialsUser = "sheets-credentials"
)

var (
	// ErrNotFound is returned when no credentials are stored.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be used.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetCredentials returns the stored service account key.
func GetCredentials() (string, error) {
	v, err := keyring.Get(Service, CredentialsUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// SetCredentials stores the service account key, replacing any previous one.
func SetCredentials(creds string) error {
	if creds == "" {
		return errors.New("credentials cannot be empty")
	}
	if err := keyring.Set(Service, CredentialsUser, creds); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteCredentials removes the stored key.
func DeleteCredentials() error {
	if err := keyring.Delete(Service, CredentialsUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether the OS keyring answers at all.
func IsAvailable() bool {
	_, err := keyring.Get(Service, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
