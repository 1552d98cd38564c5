package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
)

// GetProductByID returns a single product.
// URL param: /products/:id
func GetProductByID(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		product, err := catalog.Product(c.Request.Context(), id)
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			controllers.RespondError(c, "Failed to retrieve product", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
