package api

import (
	"context"
	"net/http"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

const addressesPath = "/auth/addresses/"

func (c *Client) ListAddresses(ctx context.Context) ([]models.Address, error) {
	var out []models.Address
	if err := c.getList(ctx, addressesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, addr models.Address) (*models.Address, error) {
	var out models.Address
	if err := c.Do(ctx, http.MethodPost, addressesPath, addr, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAddress patches only the given fields.
func (c *Client) UpdateAddress(ctx context.Context, id string, fields map[string]any) (*models.Address, error) {
	var out models.Address
	if err := c.Do(ctx, http.MethodPatch, idPath(addressesPath, id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, idPath(addressesPath, id), nil, nil)
}
