package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// CreateProduct creates a product through the backend. Images are uploaded
// first with an upload grant and sent here as URLs.
func CreateProduct(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Product
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if strings.TrimSpace(input.Name) == "" || !input.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and a positive price are required"})
			return
		}
		if input.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock_quantity"})
			return
		}

		product, err := middleware.AdminClient(c, service).CreateProduct(c.Request.Context(), input)
		if err != nil {
			controllers.RespondError(c, "Failed to create product", err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
