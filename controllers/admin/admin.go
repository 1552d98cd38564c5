package adminController

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// GET /admin/stats
func GetStats(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := middleware.AdminClient(c, service).AdminStats(c.Request.Context())
		if err != nil {
			log.Println("❌ Failed to fetch stats:", err)
			controllers.RespondError(c, "Failed to fetch stats", err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GET /admin/customers
func GetCustomers(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := middleware.AdminClient(c, service).ListCustomers(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch customers", err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// GET /admin/settings
func GetSettings(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := middleware.AdminClient(c, service).GetStoreSettings(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch settings", err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// PUT /admin/settings
func UpdateSettings(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.StoreSettings
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.MaxDeliveryDistance < 0 || input.CostPerKM.IsNegative() || input.BaseShippingCost.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping values cannot be negative"})
			return
		}
		settings, err := middleware.AdminClient(c, service).UpdateStoreSettings(c.Request.Context(), input)
		if err != nil {
			controllers.RespondError(c, "Failed to update settings", err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}
