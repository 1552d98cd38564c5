package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/admin"
	orderControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/order"
	productcontroller "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/product"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires an API key or
// a staff session.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(d.optionalSession(), middleware.RequireAdmin(d.Config.AdminAPIKey))
	{
		// ─────────── Dashboard & Customers ───────────
		adminGroup.GET("/stats", adminController.GetStats(d.Service))
		adminGroup.GET("/customers", adminController.GetCustomers(d.Service))
		adminGroup.GET("/settings", adminController.GetSettings(d.Service))
		adminGroup.PUT("/settings", adminController.UpdateSettings(d.Service))

		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", adminController.ListOrders(d.Service))
			orderAdmin.GET("/export", adminController.ExportOrdersToExcel(d.Service))
			orderAdmin.PATCH("/:id", adminController.UpdateOrder(d.Service, d.Hub))
		}

		// websocket endpoint for real-time order updates
		adminGroup.GET("/ws/orders", orderControllers.OrderWebSocketHandler(d.Hub))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.Service))
			productAdmin.PATCH("/:id", productcontroller.UpdateProduct(d.Service))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Service))
			productAdmin.POST("/import", productcontroller.ImportProductsFromExcel(d.Service))
			productAdmin.GET("/export", productcontroller.ExportProductsToExcel(d.Catalog))
		}

		// ─────────── Campaigns & Banners ───────────
		campaignAdmin := adminGroup.Group("/campaigns")
		{
			campaignAdmin.GET("", adminController.ListCampaigns(d.Service))
			campaignAdmin.POST("", adminController.CreateCampaign(d.Service))
			campaignAdmin.PATCH("/:id", adminController.UpdateCampaign(d.Service))
			campaignAdmin.DELETE("/:id", adminController.DeleteCampaign(d.Service))
		}
		bannerAdmin := adminGroup.Group("/banners")
		{
			bannerAdmin.POST("", adminController.UploadBanner(d.Service))
			bannerAdmin.DELETE("/:id", adminController.DeleteBanner(d.Service))
		}
	}
}
