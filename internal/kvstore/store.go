// Package kvstore persists string values by key. It stands in for the
// browser's local storage: rate overrides, the cached catalog and the
// last imported log snapshot all live here.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by MustGetJSON when a key has never been set.
var ErrNotFound = errors.New("key not found")

// Keys used across the application.
const (
	KeyUserCompletionRates = "userCompletionRates"
	KeyDisabledActivities  = "disabledActivities"
	KeyCollectionLogData   = "collectionLogData"
	KeyItemCatalog         = "itemCatalog"
	KeyDefaultRates        = "defaultRates"
	KeyIsIron              = "isIron"
	KeyUserToggledMode     = "userToggledMode"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// GetJSON decodes the value stored under key into target. It reports
// false, leaving target untouched, when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, target interface{}) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// MustGetJSON is GetJSON for values that must exist. An absent key
// yields an error wrapping ErrNotFound.
func MustGetJSON(ctx context.Context, s Store, key string, target interface{}) error {
	ok, err := GetJSON(ctx, s, key, target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return nil
}
