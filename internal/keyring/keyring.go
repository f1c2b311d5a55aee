// Package keyring stores bamboocare secrets (the PostgreSQL connection string
// and S3 backup credentials) in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/bamboocare/internal/constants"
)

const (
	UserConnection   = constants.DefaultKeyringUser
	UserS3AccessKey  = "s3-access-key-id"
	UserS3SecretKey  = "s3-secret-access-key"
	availabilityUser = "test-availability"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get reads a secret stored under user.
func Get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret under user, replacing any previous value.
func Set(user, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", user)
	}
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret stored under user.
func Delete(user string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

func GetConnectionString() (string, error) { return Get(UserConnection) }

func SetConnectionString(connStr string) error { return Set(UserConnection, connStr) }

func DeleteConnectionString() error { return Delete(UserConnection) }

// ResolveConnectionString returns the PostgreSQL connection string from
// BAMBOOCARE_DB_CONNECTION, falling back to the keyring. The second result
// names where it came from.
func ResolveConnectionString() (string, string, error) {
	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		return connStr, "environment", nil
	}
	connStr, err := GetConnectionString()
	if err != nil {
		return "", "", err
	}
	return connStr, "keyring", nil
}

// S3Credentials returns the stored S3 key pair. ok is false unless both halves exist.
func S3Credentials() (accessKeyID, secretAccessKey string, ok bool) {
	id, err := Get(UserS3AccessKey)
	if err != nil {
		return "", "", false
	}
	secret, err := Get(UserS3SecretKey)
	if err != nil {
		return "", "", false
	}
	return id, secret, true
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, availabilityUser)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
