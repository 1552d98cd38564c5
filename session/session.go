// Package session keeps one set of client stores per visitor: auth, cart,
// wishlist, an API client bound to the visitor's tokens, and the checkout
// flow.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/checkout"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/storage"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/store"
)

type Session struct {
	ID       string
	Auth     *store.Auth
	Cart     *store.Cart
	Wishlist *store.Wishlist
	API      *api.Client
	Checkout *checkout.Flow

	mu       sync.Mutex
	lastUsed time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) close() {
	s.Wishlist.Close()
}

// Options wires what every session shares.
type Options struct {
	Blobs    storage.BlobStore
	API      *api.Client // unauthenticated base client
	Checkout checkout.Settings
	Verifier checkout.PaymentVerifier
	Notifier checkout.Notifier
	Logger   *slog.Logger
}

type Registry struct {
	opts  Options
	group singleflight.Group
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open returns the live session for id, loading its stores from the blob
// store on first use. Concurrent opens of the same id share one load.
func (r *Registry) Open(ctx context.Context, id string) (*Session, error) {
	if s := r.lookup(id); s != nil {
		s.touch(r.now())
		return s, nil
	}

	v, err, _ := r.group.Do(id, func() (any, error) {
		if s := r.lookup(id); s != nil {
			return s, nil
		}
		s, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			s.close()
			return nil, fmt.Errorf("session registry closed")
		}
		r.sessions[id] = s
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	s := v.(*Session)
	s.touch(r.now())
	return s, nil
}

func (r *Registry) lookup(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

func (r *Registry) load(ctx context.Context, id string) (*Session, error) {
	logger := r.opts.Logger.With("session", shortID(id))

	auth, err := store.LoadAuth(ctx, r.opts.Blobs, id, logger)
	if err != nil {
		return nil, fmt.Errorf("load auth: %w", err)
	}
	cart, err := store.LoadCart(ctx, r.opts.Blobs, id, logger)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	client := r.opts.API.WithTokens(auth)
	wishlist, err := store.LoadWishlist(ctx, r.opts.Blobs, id, auth, client, logger)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}

	// an open keeps the visitor's saved state out of the sweep
	if err := r.opts.Blobs.Touch(ctx, storage.SessionKeys(id)...); err != nil {
		logger.Warn("failed to refresh session blobs", "error", err)
	}

	flow := checkout.NewFlow(checkout.Deps{
		Cart:     cart,
		Orders:   client,
		Shipping: client,
		Verifier: r.opts.Verifier,
		Notifier: r.opts.Notifier,
		Settings: r.opts.Checkout,
		Logger:   logger,
	})

	return &Session{
		ID:       id,
		Auth:     auth,
		Cart:     cart,
		Wishlist: wishlist,
		API:      client,
		Checkout: flow,
	}, nil
}

// Evict drops a session from memory after draining its wishlist mirror.
// Its persisted blobs are kept.
func (r *Registry) Evict(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.close()
	}
}

// EvictIdle drops sessions unused for longer than maxIdle and returns how
// many were dropped.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.close()
	}
	return len(idle)
}

// Sweep evicts idle in-memory sessions, then deletes persisted blobs
// untouched since before ttl. Blobs of sessions still live are refreshed
// first so they survive.
func (r *Registry) Sweep(ctx context.Context, ttl time.Duration) (int64, error) {
	evicted := r.EvictIdle(ttl)

	r.mu.Lock()
	var live []string
	for id := range r.sessions {
		live = append(live, storage.SessionKeys(id)...)
	}
	r.mu.Unlock()
	if err := r.opts.Blobs.Touch(ctx, live...); err != nil {
		return 0, err
	}

	deleted, err := r.opts.Blobs.Sweep(ctx, r.now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	r.opts.Logger.Info("session sweep finished", "evicted", evicted, "blobs_deleted", deleted)
	return deleted, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close drains every wishlist mirror. Open fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.close()
		}(s)
	}
	wg.Wait()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
