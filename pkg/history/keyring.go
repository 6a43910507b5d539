package history

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "instaviewer"

// KeyringBackend stores the list in the system keychain
type KeyringBackend struct {
	service string
}

// NewKeyringBackend checks that a keychain is reachable
func NewKeyringBackend() (*KeyringBackend, error) {
	probe := "availability_probe"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, probe)

	return &KeyringBackend{service: keyringService}, nil
}

func (k *KeyringBackend) Load() ([]string, error) {
	data, err := keyring.Get(k.service, StorageKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return list, nil
}

func (k *KeyringBackend) Save(usernames []string) error {
	data, err := json.Marshal(usernames)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := keyring.Set(k.service, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (k *KeyringBackend) Remove() error {
	err := keyring.Delete(k.service, StorageKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

func (k *KeyringBackend) Close() error { return nil }
