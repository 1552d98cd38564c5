package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

type countingSource struct {
	productCalls  atomic.Int32
	categoryCalls atomic.Int32
	gate          chan struct{}
	fail          bool
}

func (s *countingSource) ListProducts(_ context.Context, q models.ProductQuery) ([]models.Product, error) {
	s.productCalls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.fail {
		return nil, errors.New("backend down")
	}
	return []models.Product{{ID: "p1", Name: "Drill " + q.Search}}, nil
}

func (s *countingSource) GetProduct(_ context.Context, id string) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func (s *countingSource) ListCategories(context.Context) ([]models.Category, error) {
	s.categoryCalls.Add(1)
	return []models.Category{{ID: "c1", Slug: "tools"}}, nil
}

func (s *countingSource) ActiveCampaigns(context.Context) ([]models.Campaign, error) {
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCacheHitWithinTTL(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	c := New(src, nil, time.Minute, testLogger())

	for i := 0; i < 3; i++ {
		cats, err := c.Categories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 1)
	}
	assert.Equal(t, int32(1), src.categoryCalls.Load())

	_, err := c.Products(ctx, models.ProductQuery{Search: "a"})
	require.NoError(t, err)
	_, err = c.Products(ctx, models.ProductQuery{Search: "b"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.productCalls.Load())
}

func TestCacheExpires(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	mem := NewMemoryCache()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }
	c := New(src, mem, time.Minute, testLogger())

	_, _ = c.Categories(ctx)
	now = now.Add(61 * time.Second)
	_, _ = c.Categories(ctx)
	assert.Equal(t, int32(2), src.categoryCalls.Load())
}

func TestConcurrentMissesCollapse(t *testing.T) {
	src := &countingSource{gate: make(chan struct{})}
	c := New(src, nil, time.Minute, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := c.Products(context.Background(), models.ProductQuery{})
			assert.NoError(t, err)
			assert.Len(t, products, 1)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.productCalls.Load())
}

func TestFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{fail: true}
	c := New(src, nil, time.Minute, testLogger())

	products, err := c.Products(ctx, models.ProductQuery{})
	assert.Error(t, err)
	assert.Nil(t, products)

	src.fail = false
	products, err = c.Products(ctx, models.ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestHomeToleratesFailures(t *testing.T) {
	src := &countingSource{fail: true}
	c := New(src, nil, time.Minute, testLogger())

	home := c.Home(context.Background())
	assert.Nil(t, home.Featured)
	assert.Len(t, home.Categories, 1)
}
