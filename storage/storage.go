// Package storage persists the per-visitor state snapshots (auth, cart,
// wishlist) as named key-value blobs.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Blob names, one per store.
const (
	AuthBlob     = "castle-auth-storage"
	CartBlob     = "castle-cart-storage"
	WishlistBlob = "castle-wishlist-storage"
)

// ErrNotFound is returned by Load when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is a flat key-value store for JSON snapshots.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	// Touch marks existing blobs as fresh without rewriting them. Missing
	// keys are ignored.
	Touch(ctx context.Context, keys ...string) error
	// Sweep removes blobs not written since the cutoff and returns how many went.
	Sweep(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// Key namespaces a blob name under a session id.
func Key(sessionID, name string) string {
	return sessionID + ":" + name
}

// SessionKeys lists every blob key a session owns.
func SessionKeys(sessionID string) []string {
	return []string{Key(sessionID, AuthBlob), Key(sessionID, CartBlob), Key(sessionID, WishlistBlob)}
}

// LoadJSON decodes the blob under key into dest. A missing blob leaves dest
// untouched and returns false.
func LoadJSON(ctx context.Context, s BlobStore, key string, dest any) (bool, error) {
	data, err := s.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, s BlobStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Save(ctx, key, data)
}
