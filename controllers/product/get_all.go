package productcontroller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/catalog"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// Catalog is the cached read side of the product API.
type Catalog interface {
	Products(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	Product(ctx context.Context, id string) (*models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	ActiveCampaigns(ctx context.Context) ([]models.Campaign, error)
	Home(ctx context.Context) catalog.HomePage
}

func GetProducts(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := models.ProductQuery{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Ordering: c.Query("ordering"),
			MinPrice: c.Query("min_price"),
			MaxPrice: c.Query("max_price"),
		}

		if q.MinPrice != "" {
			if _, err := decimal.NewFromString(q.MinPrice); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
		}
		if q.MaxPrice != "" {
			if _, err := decimal.NewFromString(q.MaxPrice); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
		}
		if v := c.Query("on_sale"); v != "" {
			onSale, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid on_sale"})
				return
			}
			q.OnSale = onSale
		}
		if v := c.Query("page"); v != "" {
			page, err := strconv.Atoi(v)
			if err != nil || page < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
				return
			}
			q.Page = page
		}

		products, err := catalog.Products(c.Request.Context(), q)
		if err != nil {
			controllers.RespondError(c, "Failed to fetch products", err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /home
func GetHomePage(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.Home(c.Request.Context()))
	}
}
