package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/order"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(d.requireSession())
	{
		// Orders of the signed-in visitor
		orders.GET("", orderControllers.ListOrders())
		orders.GET("/:id", orderControllers.GetOrder())

		// PDF receipt, ?action=view renders inline
		orders.GET("/:id/receipt", orderControllers.OrderReceipt(d.Config.PublicSiteURL))
	}

	// Public tracking by order id
	r.GET("/track-order/:id", orderControllers.TrackOrder(d.Public))
}
