package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// userStore scopes a KeyValueStore to one user's namespace, which stands in
// for a single browser's local storage
type userStore struct {
	store    ports.KeyValueStore
	username string
}

func newUserStore(store ports.KeyValueStore, username string) userStore {
	return userStore{store: store, username: username}
}

// UserKey returns the namespaced storage key for a user's key
func UserKey(username, key string) string {
	return "user:" + username + ":" + key
}

func (u userStore) key(key string) string {
	return UserKey(u.username, key)
}

// getString returns the stored value, or "" when the key is missing
func (u userStore) getString(ctx context.Context, key string) (string, error) {
	return getString(ctx, u.store, u.key(key))
}

func (u userStore) setString(ctx context.Context, key, value string) error {
	return u.store.Set(ctx, u.key(key), value)
}

func (u userStore) delete(ctx context.Context, key string) error {
	return u.store.Delete(ctx, u.key(key))
}

// getInt reads an integer value. Missing or unparsable values read as 0.
func (u userStore) getInt(ctx context.Context, key string) (int, error) {
	raw, err := u.getString(ctx, key)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (u userStore) setInt(ctx context.Context, key string, n int) error {
	return u.setString(ctx, key, strconv.Itoa(n))
}

func (u userStore) getJSON(ctx context.Context, key string, dst interface{}) error {
	return getJSON(ctx, u.store, u.key(key), dst)
}

func (u userStore) setJSON(ctx context.Context, key string, v interface{}) error {
	return setJSON(ctx, u.store, u.key(key), v)
}

func getString(ctx context.Context, store ports.KeyValueStore, key string) (string, error) {
	value, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// getJSON decodes a JSON value into dst. A missing key leaves dst untouched.
func getJSON(ctx context.Context, store ports.KeyValueStore, key string, dst interface{}) error {
	raw, err := getString(ctx, store, key)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, store ports.KeyValueStore, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(body)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
