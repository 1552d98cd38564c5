package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/storage"
)

// TokenSource tells the wishlist whether a backend session exists.
type TokenSource interface {
	AccessToken() string
}

// WishlistState is the persisted wishlist snapshot.
type WishlistState struct {
	Items []models.Product `json:"items"`
}

// Wishlist is the local, authoritative list of liked products. With a
// backend session, changes are also queued on the mirror.
type Wishlist struct {
	mu     sync.RWMutex
	state  WishlistState
	blobs  storage.BlobStore
	key    string
	tokens TokenSource
	remote WishlistRemote
	mirror *Mirror
	logger *slog.Logger
}

func LoadWishlist(ctx context.Context, blobs storage.BlobStore, sessionID string, tokens TokenSource, remote WishlistRemote, logger *slog.Logger) (*Wishlist, error) {
	w := &Wishlist{
		blobs:  blobs,
		key:    storage.Key(sessionID, storage.WishlistBlob),
		tokens: tokens,
		remote: remote,
		logger: logger,
	}
	if _, err := storage.LoadJSON(ctx, blobs, w.key, &w.state); err != nil {
		return nil, fmt.Errorf("load wishlist state: %w", err)
	}
	if remote != nil {
		w.mirror = NewMirror(remote, logger.With("session_id", sessionID))
	}
	return w, nil
}

func (w *Wishlist) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, w.blobs, w.key, w.state); err != nil {
		w.logger.Error("persist wishlist state", "error", err)
		return err
	}
	return nil
}

func (w *Wishlist) hasSession() bool {
	return w.mirror != nil && w.tokens != nil && w.tokens.AccessToken() != ""
}

func (w *Wishlist) indexOf(productID string) int {
	for i := range w.state.Items {
		if w.state.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// AddItem inserts product if it is not already listed.
func (w *Wishlist) AddItem(ctx context.Context, product models.Product) error {
	w.mu.Lock()
	if w.indexOf(product.ID) >= 0 {
		w.mu.Unlock()
		return nil
	}
	w.state.Items = append(w.state.Items, product)
	err := w.persist(ctx)
	w.mu.Unlock()
	if err != nil {
		return err
	}

	if w.hasSession() {
		if err := w.mirror.enqueue(mirrorOp{kind: mirrorAdd, productID: product.ID}); err != nil {
			w.logger.Warn("wishlist add not mirrored", "product_id", product.ID, "error", err)
		}
	}
	return nil
}

// RemoveItem drops the product locally and, with a session, queues the
// remote removal.
func (w *Wishlist) RemoveItem(ctx context.Context, productID string) error {
	w.mu.Lock()
	i := w.indexOf(productID)
	if i < 0 {
		w.mu.Unlock()
		return nil
	}
	w.state.Items = append(w.state.Items[:i], w.state.Items[i+1:]...)
	err := w.persist(ctx)
	w.mu.Unlock()
	if err != nil {
		return err
	}

	if w.hasSession() {
		if err := w.mirror.enqueue(mirrorOp{kind: mirrorRemove, productID: productID}); err != nil {
			w.logger.Warn("wishlist remove not mirrored", "product_id", productID, "error", err)
		}
	}
	return nil
}

func (w *Wishlist) IsInWishlist(productID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.indexOf(productID) >= 0
}

// Items returns a copy of the listed products.
func (w *Wishlist) Items() []models.Product {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.Product, len(w.state.Items))
	copy(out, w.state.Items)
	return out
}

// ClearWishlist empties the local list only.
func (w *Wishlist) ClearWishlist(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Items = nil
	return w.persist(ctx)
}

// SyncWithAPI replaces the local list with the server's. Without a session
// it does nothing. Pending mirror changes are flushed first so they are
// reflected in what the server returns. On error the local list is kept.
func (w *Wishlist) SyncWithAPI(ctx context.Context) error {
	if !w.hasSession() {
		return nil
	}
	if err := w.mirror.Flush(ctx); err != nil {
		return err
	}

	entries, err := w.remote.GetWishlist(ctx)
	if err != nil {
		w.logger.Warn("wishlist sync failed", "error", err)
		return fmt.Errorf("sync wishlist: %w", err)
	}

	items := make([]models.Product, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Product)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Items = items
	return w.persist(ctx)
}

// Flush waits for queued remote changes.
func (w *Wishlist) Flush(ctx context.Context) error {
	if w.mirror == nil {
		return nil
	}
	return w.mirror.Flush(ctx)
}

// Close stops the mirror worker after draining it.
func (w *Wishlist) Close() {
	if w.mirror != nil {
		w.mirror.Close()
	}
}
