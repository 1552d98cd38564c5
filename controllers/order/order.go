package orderControllers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/receipt"
)

// Tracker looks up an order by id without a login.
type Tracker interface {
	TrackOrder(ctx context.Context, id string) (*models.Order, error)
}

// GET /orders
func ListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		orders, err := s.API.ListOrders(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch orders", err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:id
func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		order, err := s.API.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			controllers.RespondError(c, "Failed to fetch order", err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders/:id/receipt?action=download|view
// The PDF is rendered in full before anything is written, so a malformed
// order still gets a JSON error.
func OrderReceipt(siteURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		order, err := s.API.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			controllers.RespondError(c, "Failed to fetch order", err)
			return
		}

		var buf bytes.Buffer
		if err := receipt.Write(&buf, *order, receipt.Options{SiteURL: siteURL}); err != nil {
			log.Printf("❌ Receipt for order %s failed: %v", order.ID, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to generate receipt", "details": err.Error()})
			return
		}

		disposition := "attachment"
		if c.Query("action") == "view" {
			disposition = "inline"
		}
		c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%s", disposition, receipt.Filename(*order)))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

// GET /track-order/:id
func TrackOrder(tracker Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := tracker.TrackOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			controllers.RespondError(c, "Failed to track order", err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
