package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
)

func DeleteProduct(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		if err := middleware.AdminClient(c, service).DeleteProduct(c.Request.Context(), id); err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			controllers.RespondError(c, "Failed to delete product", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
