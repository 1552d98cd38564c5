package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
)

// GET /categories
func GetCategories(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch categories", err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /campaigns/active
func GetActiveCampaigns(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaigns, err := catalog.ActiveCampaigns(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch campaigns", err)
			return
		}
		c.JSON(http.StatusOK, campaigns)
	}
}
