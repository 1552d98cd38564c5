package models

import "time"

// WishlistEntry is the server-side wishlist record. Deletions are keyed by
// its own ID, not by the product's.
type WishlistEntry struct {
	ID      string     `json:"id"`
	User    string     `json:"user,omitempty"`
	Product Product    `json:"product"`
	AddedAt *time.Time `json:"added_at,omitempty"`
}

type AddWishlistRequest struct {
	ProductID string `json:"product_id"`
}
