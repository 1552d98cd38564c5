package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/checkout"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/storage"
)

func newRegistry(t *testing.T, blobs storage.BlobStore) *Registry {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRegistry(Options{
		Blobs:    blobs,
		API:      api.NewClient(srv.URL+"/api", nil, logger),
		Checkout: checkout.Settings{PODRegion: "Nairobi", Currency: "KES"},
		Logger:   logger,
	})
	t.Cleanup(r.Close)
	return r
}

var hammer = models.Product{ID: "a", Name: "Claw Hammer", Price: decimal.NewFromInt(1000), StockQuantity: 5}

func TestOpenReturnsSameSession(t *testing.T) {
	r := newRegistry(t, storage.NewMemoryStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([]*Session, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Open(ctx, "visitor-1")
			assert.NoError(t, err)
			got[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, r.Len())
}

func TestStateSurvivesEviction(t *testing.T) {
	blobs := storage.NewMemoryStore()
	r := newRegistry(t, blobs)
	ctx := context.Background()

	s, err := r.Open(ctx, "visitor-1")
	require.NoError(t, err)
	require.NoError(t, s.Cart.AddItem(ctx, hammer, nil))
	require.NoError(t, s.Wishlist.AddItem(ctx, hammer))

	r.Evict("visitor-1")
	assert.Equal(t, 0, r.Len())

	again, err := r.Open(ctx, "visitor-1")
	require.NoError(t, err)
	assert.NotSame(t, s, again)
	assert.Equal(t, 1, again.Cart.TotalItems())
	assert.True(t, again.Wishlist.IsInWishlist("a"))
	assert.Equal(t, checkout.StepDelivery, again.Checkout.Step())

	other, err := r.Open(ctx, "visitor-2")
	require.NoError(t, err)
	assert.True(t, other.Cart.IsEmpty())
}

func TestEvictIdle(t *testing.T) {
	r := newRegistry(t, storage.NewMemoryStore())
	ctx := context.Background()

	now := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	_, err := r.Open(ctx, "old")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = r.Open(ctx, "fresh")
	require.NoError(t, err)

	assert.Equal(t, 1, r.EvictIdle(time.Hour))
	assert.Nil(t, r.lookup("old"))
	assert.NotNil(t, r.lookup("fresh"))
}

func TestSweepKeepsSessionsInUse(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	r := newRegistry(t, storage.NewMemoryStoreWithClock(clock))
	r.now = clock

	s, err := r.Open(ctx, "visitor-1")
	require.NoError(t, err)
	require.NoError(t, s.Cart.AddItem(ctx, hammer, nil))
	require.NoError(t, s.Wishlist.AddItem(ctx, hammer))

	// browsing for a month without changing anything
	now = now.Add(31 * 24 * time.Hour)
	_, err = r.Open(ctx, "visitor-1")
	require.NoError(t, err)

	_, err = r.Sweep(ctx, 30*24*time.Hour)
	require.NoError(t, err)

	r.Evict("visitor-1")
	again, err := r.Open(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Cart.TotalItems())
	assert.True(t, again.Wishlist.IsInWishlist("a"))
}

func TestSweepKeepsRecentlyReopenedSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	r := newRegistry(t, storage.NewMemoryStoreWithClock(clock))
	r.now = clock

	for _, id := range []string{"returning", "gone"} {
		s, err := r.Open(ctx, id)
		require.NoError(t, err)
		require.NoError(t, s.Cart.AddItem(ctx, hammer, nil))
		r.Evict(id)
	}

	now = now.Add(20 * 24 * time.Hour)
	_, err := r.Open(ctx, "returning")
	require.NoError(t, err)
	r.Evict("returning")

	now = now.Add(25 * 24 * time.Hour)
	_, err = r.Sweep(ctx, 30*24*time.Hour)
	require.NoError(t, err)

	returning, err := r.Open(ctx, "returning")
	require.NoError(t, err)
	assert.Equal(t, 1, returning.Cart.TotalItems())

	gone, err := r.Open(ctx, "gone")
	require.NoError(t, err)
	assert.True(t, gone.Cart.IsEmpty())
}

func TestOpenAfterCloseFails(t *testing.T) {
	r := newRegistry(t, storage.NewMemoryStore())
	r.Close()
	_, err := r.Open(context.Background(), "late")
	assert.Error(t, err)
}
