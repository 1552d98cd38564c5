package api

import (
	"context"
	"net/http"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

const wishlistPath = "/products/wishlist/"

func (c *Client) GetWishlist(ctx context.Context) ([]models.WishlistEntry, error) {
	var out []models.WishlistEntry
	if err := c.getList(ctx, wishlistPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) (*models.WishlistEntry, error) {
	var out models.WishlistEntry
	if err := c.Do(ctx, http.MethodPost, wishlistPath, models.AddWishlistRequest{ProductID: productID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFromWishlist deletes a server wishlist entry by its own id, not the
// product id.
func (c *Client) RemoveFromWishlist(ctx context.Context, entryID string) error {
	return c.Do(ctx, http.MethodDelete, idPath(wishlistPath, entryID), nil, nil)
}
