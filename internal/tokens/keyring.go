package tokens

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
)

// ErrKeyringUnavailable is returned when the OS keyring cannot be used
var ErrKeyringUnavailable = errors.New("OS keyring is not available")

// KeyringStore keeps each token as a separate OS keyring secret under one service.
type KeyringStore struct {
	service string
	mu      sync.Mutex
}

func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

func (k *KeyringStore) Get() (models.TokenPair, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	access, err := k.get(constants.AccessTokenKey)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := k.get(constants.RefreshTokenKey)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (k *KeyringStore) Set(pair models.TokenPair) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := keyring.Set(k.service, constants.AccessTokenKey, pair.Access); err != nil {
		return fmt.Errorf("failed to store access token in keyring: %w", err)
	}
	if err := keyring.Set(k.service, constants.RefreshTokenKey, pair.Refresh); err != nil {
		return fmt.Errorf("failed to store refresh token in keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, key := range []string{constants.AccessTokenKey, constants.RefreshTokenKey} {
		if err := keyring.Delete(k.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
		}
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func (k *KeyringStore) IsAvailable() bool {
	_, err := keyring.Get(k.service, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func (k *KeyringStore) get(user string) (string, error) {
	v, err := keyring.Get(k.service, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}
