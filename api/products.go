package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// productValues maps a ProductQuery onto the backend's filter parameters.
func productValues(q models.ProductQuery) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category__slug", q.Category)
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.MinPrice != "" {
		v.Set("price__gte", q.MinPrice)
	}
	if q.MaxPrice != "" {
		v.Set("price__lte", q.MaxPrice)
	}
	if q.OnSale {
		v.Set("on_sale", "true")
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	var out []models.Product
	if err := c.getList(ctx, "/products/", productValues(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	if err := c.Do(ctx, http.MethodGet, idPath("/products/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.getList(ctx, "/products/categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	var out []models.Review
	if err := c.getList(ctx, idPath("/products/", productID)+"reviews/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, productID string, review models.Review) (*models.Review, error) {
	var out models.Review
	if err := c.Do(ctx, http.MethodPost, idPath("/products/", productID)+"reviews/", review, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
