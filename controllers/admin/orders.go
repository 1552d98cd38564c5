package adminController

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

type UpdateOrderInput struct {
	Status        string  `json:"status"`
	IsPaid        *bool   `json:"is_paid"`
	TrackingNotes *string `json:"tracking_notes"`
}

// OrderEvents hears about admin-side order changes.
type OrderEvents interface {
	OrderPaid(order models.Order)
}

// GET /admin/orders
func ListOrders(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := middleware.AdminClient(c, service).AdminListOrders(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch orders", err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PATCH /admin/orders/:id
func UpdateOrder(service *api.Client, events OrderEvents) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var update models.OrderUpdate
		if input.Status != "" {
			status, err := models.ParseOrderStatus(input.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			update.Status = &status
		}
		update.IsPaid = input.IsPaid
		update.TrackingNotes = input.TrackingNotes
		if update.Status == nil && update.IsPaid == nil && update.TrackingNotes == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}

		order, err := middleware.AdminClient(c, service).AdminUpdateOrder(c.Request.Context(), c.Param("id"), update)
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			controllers.RespondError(c, "Failed to update order", err)
			return
		}
		if input.IsPaid != nil && *input.IsPaid && events != nil {
			events.OrderPaid(*order)
		}
		log.Printf("📦 Order %s updated: status=%s paid=%t", order.ID, order.Status, order.IsPaid)
		c.JSON(http.StatusOK, order)
	}
}

var orderHeaders = []string{
	"ID", "Date", "Customer", "Status", "PaymentMethod", "Paid",
	"Total", "Shipping", "DeliveryAddress", "Items", "PaystackRef",
}

func orderSheet(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range orderHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}

		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(o.User)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(string(o.PaymentMethod))
		row.AddCell().SetBool(o.IsPaid)
		row.AddCell().SetString(o.TotalAmount)
		row.AddCell().SetString(o.ShippingCost)
		row.AddCell().SetString(o.DeliveryAddress)
		row.AddCell().SetInt(items)
		row.AddCell().SetString(o.PaystackRef)
	}
	return file, nil
}

// GET /admin/orders/export
func ExportOrdersToExcel(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := middleware.AdminClient(c, service).AdminListOrders(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch orders", err)
			return
		}

		file, err := orderSheet(orders)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
