package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// ErrMirrorClosed is returned when enqueueing on a stopped mirror.
var ErrMirrorClosed = errors.New("wishlist mirror closed")

// WishlistRemote is the server wishlist API the mirror replays changes against.
type WishlistRemote interface {
	GetWishlist(ctx context.Context) ([]models.WishlistEntry, error)
	AddToWishlist(ctx context.Context, productID string) (*models.WishlistEntry, error)
	RemoveFromWishlist(ctx context.Context, entryID string) error
}

type mirrorOpKind int

const (
	mirrorAdd mirrorOpKind = iota
	mirrorRemove
)

func (k mirrorOpKind) String() string {
	if k == mirrorAdd {
		return "add"
	}
	return "remove"
}

type mirrorOp struct {
	kind      mirrorOpKind
	productID string
}

// Mirror replays local wishlist changes against the server in FIFO order on
// its own goroutine. Failures are logged and dropped; local state is never
// rolled back.
type Mirror struct {
	remote    WishlistRemote
	logger    *slog.Logger
	opTimeout time.Duration

	mu       sync.Mutex
	queue    []mirrorOp
	inflight bool
	idle     chan struct{} // closed while nothing is queued or running
	closed   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewMirror(remote WishlistRemote, logger *slog.Logger) *Mirror {
	idle := make(chan struct{})
	close(idle)
	m := &Mirror{
		remote:    remote,
		logger:    logger,
		opTimeout: 15 * time.Second,
		idle:      idle,
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Mirror) enqueue(op mirrorOp) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMirrorClosed
	}
	if len(m.queue) == 0 && !m.inflight {
		m.idle = make(chan struct{})
	}
	m.queue = append(m.queue, op)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
	return nil
}

func (m *Mirror) run() {
	defer close(m.done)
	for {
		m.mu.Lock()
		for len(m.queue) == 0 {
			if m.closed {
				m.mu.Unlock()
				return
			}
			m.mu.Unlock()
			select {
			case <-m.wake:
			case <-m.stop:
			}
			m.mu.Lock()
		}
		op := m.queue[0]
		m.queue = m.queue[1:]
		m.inflight = true
		m.mu.Unlock()

		m.apply(op)

		m.mu.Lock()
		m.inflight = false
		if len(m.queue) == 0 {
			close(m.idle)
		}
		m.mu.Unlock()
	}
}

func (m *Mirror) apply(op mirrorOp) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opTimeout)
	defer cancel()

	var err error
	switch op.kind {
	case mirrorAdd:
		_, err = m.remote.AddToWishlist(ctx, op.productID)
	case mirrorRemove:
		err = m.removeRemote(ctx, op.productID)
	}
	if err != nil {
		m.logger.Warn("wishlist mirror failed", "op", op.kind.String(), "product_id", op.productID, "error", err)
		return
	}
	m.logger.Debug("wishlist mirrored", "op", op.kind.String(), "product_id", op.productID)
}

// removeRemote resolves the server entry for a product and deletes it by
// entry id. The server has no delete-by-product route.
func (m *Mirror) removeRemote(ctx context.Context, productID string) error {
	entries, err := m.remote.GetWishlist(ctx)
	if err != nil {
		return fmt.Errorf("fetch wishlist: %w", err)
	}
	for _, e := range entries {
		if e.Product.ID == productID {
			return m.remote.RemoveFromWishlist(ctx, e.ID)
		}
	}
	return nil
}

// Flush blocks until every queued change has been attempted.
func (m *Mirror) Flush(ctx context.Context) error {
	m.mu.Lock()
	idle := m.idle
	m.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting changes, drains what is queued and stops the worker.
func (m *Mirror) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		<-m.done
		return
	}
	m.closed = true
	m.mu.Unlock()

	close(m.stop)
	<-m.done
}
