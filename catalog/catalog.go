// Package catalog serves the read-mostly storefront data (products,
// categories, running campaigns) with a short revalidation window.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// Source is the subset of the API client the catalogue reads from.
type Source interface {
	ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ActiveCampaigns(ctx context.Context) ([]models.Campaign, error)
}

type Catalog struct {
	src    Source
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func New(src Source, cache Cache, ttl time.Duration, logger *slog.Logger) *Catalog {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Catalog{src: src, cache: cache, ttl: ttl, logger: logger}
}

// fetch is cache-aside over load. Concurrent misses on one key share a single
// upstream call. Failures are logged and returned with the zero value.
func fetch[T any](ctx context.Context, c *Catalog, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if raw, ok := c.cache.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		data, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(data); err == nil {
			c.cache.Set(ctx, key, raw, c.ttl)
		}
		return data, nil
	})
	if err != nil {
		c.logger.Warn("catalog fetch failed", "key", key, "error", err)
		return zero, err
	}
	return v.(T), nil
}

func (c *Catalog) Products(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	qk, _ := json.Marshal(q)
	return fetch(ctx, c, "products:"+string(qk), func(ctx context.Context) ([]models.Product, error) {
		return c.src.ListProducts(ctx, q)
	})
}

func (c *Catalog) Product(ctx context.Context, id string) (*models.Product, error) {
	return fetch(ctx, c, "product:"+id, func(ctx context.Context) (*models.Product, error) {
		return c.src.GetProduct(ctx, id)
	})
}

func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	return fetch(ctx, c, "categories", c.src.ListCategories)
}

func (c *Catalog) ActiveCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return fetch(ctx, c, "campaigns:active", c.src.ActiveCampaigns)
}

// HomePage bundles what the landing page needs. Parts that fail are nil.
type HomePage struct {
	Featured   []models.Product  `json:"featured"`
	OnSale     []models.Product  `json:"on_sale"`
	Categories []models.Category `json:"categories"`
	Campaigns  []models.Campaign `json:"campaigns"`
}

func (c *Catalog) Home(ctx context.Context) HomePage {
	var home HomePage
	home.Featured, _ = c.Products(ctx, models.ProductQuery{Ordering: "-created_at"})
	home.OnSale, _ = c.Products(ctx, models.ProductQuery{OnSale: true})
	home.Categories, _ = c.Categories(ctx)
	home.Campaigns, _ = c.ActiveCampaigns(ctx)
	return home
}
