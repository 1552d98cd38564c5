package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/cart"
	checkoutControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/checkout"
	userControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/user"
	wishlistControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/wishlist"
)

// SetupUserRoutes registers the per-visitor endpoints. Requires a session token.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	visitor := r.Group("")
	visitor.Use(d.requireSession())

	// ──────────────── Shopping Cart ────────────────
	cartGroup := visitor.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetCart())                     // GET /cart
		cartGroup.POST("/items", cartControllers.AddCartItem(d.Catalog)) // POST /cart/items
		cartGroup.PATCH("/items", cartControllers.UpdateCartItem())      // PATCH /cart/items
		cartGroup.DELETE("/items", cartControllers.DeleteCartItem())     // DELETE /cart/items?id=
		cartGroup.DELETE("", cartControllers.ClearCart())                // DELETE /cart
	}

	// ──────────────── Wishlist ────────────────
	wishlistGroup := visitor.Group("/wishlist")
	{
		wishlistGroup.GET("", wishlistControllers.GetWishlist())
		wishlistGroup.POST("", wishlistControllers.AddWishlistItem(d.Catalog))
		wishlistGroup.DELETE("/:product_id", wishlistControllers.RemoveWishlistItem())
		wishlistGroup.POST("/sync", wishlistControllers.SyncWishlist())
	}

	// ──────────────── Checkout ────────────────
	checkoutGroup := visitor.Group("/checkout")
	{
		checkoutGroup.GET("", checkoutControllers.GetCheckout())
		checkoutGroup.POST("/delivery", checkoutControllers.SetDelivery())
		checkoutGroup.POST("/continue", checkoutControllers.ContinueToPayment())
		checkoutGroup.POST("/back", checkoutControllers.Back())
		checkoutGroup.POST("/payment-method", checkoutControllers.SelectPaymentMethod())
		checkoutGroup.POST("/pay", checkoutControllers.Pay())
		checkoutGroup.POST("/payment/complete", checkoutControllers.CompletePayment())
		checkoutGroup.POST("/payment/cancel", checkoutControllers.CancelPayment())
		checkoutGroup.POST("/reset", checkoutControllers.Reset())
	}

	// ──────────────── Addresses & Notifications ────────────────
	addressGroup := visitor.Group("/addresses")
	{
		addressGroup.GET("", userControllers.ListAddresses())
		addressGroup.POST("", userControllers.CreateAddress())
		addressGroup.PATCH("/:id", userControllers.UpdateAddress())
		addressGroup.DELETE("/:id", userControllers.DeleteAddress())
	}
	visitor.GET("/notifications", userControllers.ListNotifications())
}
