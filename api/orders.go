package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.Do(ctx, http.MethodPost, "/orders/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders returns the signed-in user's orders.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.getList(ctx, "/orders/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	if err := c.Do(ctx, http.MethodGet, idPath("/orders/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrackOrder looks an order up by id without authentication.
func (c *Client) TrackOrder(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	if err := c.Do(ctx, http.MethodGet, idPath("/orders/track/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateShipping quotes delivery from the store to (lat, lng).
func (c *Client) CalculateShipping(ctx context.Context, lat, lng float64) (*models.ShippingQuote, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	var out models.ShippingQuote
	if err := c.get(ctx, "/orders/settings/calculate_shipping/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
