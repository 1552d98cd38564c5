// Package store holds the per-visitor client state: who is signed in, what is
// in the cart and what is on the wishlist. Every mutation writes a snapshot
// through to the blob store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/storage"
)

// AuthState is the persisted auth snapshot.
type AuthState struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	AccessToken     string       `json:"access_token,omitempty"`
	RefreshToken    string       `json:"refresh_token,omitempty"`
}

// Auth tracks the signed-in user and the backend token pair.
type Auth struct {
	mu     sync.RWMutex
	state  AuthState
	blobs  storage.BlobStore
	key    string
	logger *slog.Logger
}

// LoadAuth rehydrates the auth store of a session. A missing snapshot yields
// a signed-out store.
func LoadAuth(ctx context.Context, blobs storage.BlobStore, sessionID string, logger *slog.Logger) (*Auth, error) {
	a := &Auth{blobs: blobs, key: storage.Key(sessionID, storage.AuthBlob), logger: logger}
	if _, err := storage.LoadJSON(ctx, blobs, a.key, &a.state); err != nil {
		return nil, fmt.Errorf("load auth state: %w", err)
	}
	return a, nil
}

func (a *Auth) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, a.blobs, a.key, a.state); err != nil {
		a.logger.Error("persist auth state", "error", err)
		return err
	}
	return nil
}

// SetUser records the signed-in user. A nil user marks the store signed out
// but keeps the tokens.
func (a *Auth) SetUser(ctx context.Context, user *models.User) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.User = user
	a.state.IsAuthenticated = user != nil
	return a.persist(ctx)
}

// SetTokens stores a fresh access/refresh pair.
func (a *Auth) SetTokens(ctx context.Context, access, refresh string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.AccessToken = access
	a.state.RefreshToken = refresh
	return a.persist(ctx)
}

// SetAccessToken replaces only the access token, after a refresh.
func (a *Auth) SetAccessToken(ctx context.Context, access string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.AccessToken = access
	return a.persist(ctx)
}

// ClearTokens drops both tokens and signs the user out.
func (a *Auth) ClearTokens(ctx context.Context) error {
	return a.Logout(ctx)
}

// Logout clears user and tokens. Cart and wishlist are left alone.
func (a *Auth) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = AuthState{}
	return a.persist(ctx)
}

func (a *Auth) AccessToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.AccessToken
}

func (a *Auth) RefreshToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.RefreshToken
}

// User returns a copy of the signed-in user, or nil.
func (a *Auth) User() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.state.User == nil {
		return nil
	}
	u := *a.state.User
	return &u
}

func (a *Auth) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.IsAuthenticated
}

// IsStaff reports whether the signed-in user may use the back office.
func (a *Auth) IsStaff() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.IsAuthenticated && a.state.User != nil && a.state.User.IsStaff
}

// Snapshot returns the state without the tokens, for rendering.
func (a *Auth) Snapshot() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := AuthState{IsAuthenticated: a.state.IsAuthenticated}
	if a.state.User != nil {
		u := *a.state.User
		s.User = &u
	}
	return s
}
