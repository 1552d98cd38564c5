package wishlistControllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

type ProductSource interface {
	Product(ctx context.Context, id string) (*models.Product, error)
}

// GET /wishlist
func GetWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": s.Wishlist.Items()})
	}
}

// POST /wishlist
// The local list changes immediately; the server copy follows in the
// background for signed-in visitors.
func AddWishlistItem(products ProductSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}

		var input models.AddWishlistRequest
		if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}

		product, err := products.Product(c.Request.Context(), input.ProductID)
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			controllers.RespondError(c, "Failed to validate product", err)
			return
		}

		if err := s.Wishlist.AddItem(c.Request.Context(), *product); err != nil {
			controllers.RespondError(c, "Failed to add to wishlist", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"items": s.Wishlist.Items()})
	}
}

// DELETE /wishlist/:product_id
func RemoveWishlistItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		if err := s.Wishlist.RemoveItem(c.Request.Context(), c.Param("product_id")); err != nil {
			controllers.RespondError(c, "Failed to remove from wishlist", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": s.Wishlist.Items()})
	}
}

// POST /wishlist/sync
func SyncWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		if err := s.Wishlist.SyncWithAPI(c.Request.Context()); err != nil {
			controllers.RespondError(c, "Failed to sync wishlist", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": s.Wishlist.Items()})
	}
}
