package api

import (
	"context"
	"net/http"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

func (c *Client) AdminListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.getList(ctx, "/orders/admin/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminUpdateOrder(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error) {
	var out models.Order
	if err := c.Do(ctx, http.MethodPatch, idPath("/orders/admin/", id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var out models.AdminStats
	if err := c.Do(ctx, http.MethodGet, "/orders/stats/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	var out models.StoreSettings
	if err := c.Do(ctx, http.MethodGet, "/orders/settings/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStoreSettings replaces the shipping settings (the backend exposes
// this as a POST on the collection).
func (c *Client) UpdateStoreSettings(ctx context.Context, s models.StoreSettings) (*models.StoreSettings, error) {
	var out models.StoreSettings
	if err := c.Do(ctx, http.MethodPost, "/orders/settings/", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.getList(ctx, "/auth/users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var out models.Product
	if err := c.Do(ctx, http.MethodPost, "/products/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*models.Product, error) {
	var out models.Product
	if err := c.Do(ctx, http.MethodPatch, idPath("/products/", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, idPath("/products/", id), nil, nil)
}
