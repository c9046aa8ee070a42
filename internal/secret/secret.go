// Package secret stores the correction API key in the platform keyring
// (Keychain on macOS, Secret Service on Linux, Credential Manager on Windows).
package secret

import (
	"errors"
	"strings"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/zalando/go-keyring"
)

const (
	ServiceName = "com.typozap.gemini"
	AccountName = "api_key"
)

// Keyring is the minimal surface of an OS keyring
type Keyring interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, account string) (string, error) { return keyring.Get(service, account) }
func (osKeyring) Set(service, account, value string) error   { return keyring.Set(service, account, value) }
func (osKeyring) Delete(service, account string) error       { return keyring.Delete(service, account) }

// Store holds a single credential under a fixed service/account pair
type Store struct {
	backend Keyring
	service string
	account string
}

// NewStore returns a Store backed by the OS keyring
func NewStore() *Store {
	return NewStoreWithKeyring(osKeyring{})
}

// NewStoreWithKeyring returns a Store backed by k
func NewStoreWithKeyring(k Keyring) *Store {
	return &Store{backend: k, service: ServiceName, account: AccountName}
}

// HasCredential reports whether a non-empty credential is stored
func (s *Store) HasCredential() bool {
	_, ok := s.Get()
	return ok
}

// Set replaces the stored credential. Failures are logged, not returned.
func (s *Store) Set(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		logger.Warn("Refusing to store an empty API key")
		return
	}

	if err := s.backend.Delete(s.service, s.account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debugf("No previous API key removed: %v", err)
	}

	if err := s.backend.Set(s.service, s.account, value); err != nil {
		logger.Error("Error saving API key to keyring", err)
		return
	}
	logger.Infof("API key saved to keyring (%s)", logger.Redact(value))
}

// Get returns the stored credential and whether one exists
func (s *Store) Get() (string, bool) {
	value, err := s.backend.Get(s.service, s.account)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Error("Error reading API key from keyring", err)
		}
		return "", false
	}
	if value == "" {
		return "", false
	}
	return value, true
}
