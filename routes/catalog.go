package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/product"
	userControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/user"
)

// SetupCatalogRoutes registers the read-only storefront endpoints.
func SetupCatalogRoutes(r *gin.Engine, d Deps) {
	r.GET("/home", productControllers.GetHomePage(d.Catalog))
	r.GET("/categories", productControllers.GetCategories(d.Catalog))
	r.GET("/campaigns/active", productControllers.GetActiveCampaigns(d.Catalog))

	products := r.Group("/products")
	{
		products.GET("", productControllers.GetProducts(d.Catalog))
		products.GET("/:id", productControllers.GetProductByID(d.Catalog))
		products.GET("/:id/reviews", productControllers.GetReviews(d.Public))
		products.POST("/:id/reviews", d.requireSession(), productControllers.CreateReview())
	}

	r.POST("/newsletter", d.requireSession(), userControllers.SubscribeNewsletter())
	r.POST("/contact", d.requireSession(), userControllers.SendContactMessage())
}
