package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
)

// UpdateProduct patches only the fields present in the body.
func UpdateProduct(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		var updates map[string]any
		if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		delete(updates, "id")

		product, err := middleware.AdminClient(c, service).UpdateProduct(c.Request.Context(), id, updates)
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			controllers.RespondError(c, "Failed to update product", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
