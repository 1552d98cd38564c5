package paymentControllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/paystack"
)

// OrderBook is the admin side of the order API.
type OrderBook interface {
	AdminListOrders(ctx context.Context) ([]models.Order, error)
	AdminUpdateOrder(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error)
}

type PaidNotifier interface {
	OrderPaid(order models.Order)
}

func findByReference(orders []models.Order, reference string) *models.Order {
	for i := range orders {
		if orders[i].PaystackRef == reference {
			return &orders[i]
		}
	}
	return nil
}

// PaystackWebhook marks the referenced order paid on charge.success. It runs
// behind middleware.PaystackSignature. Paystack retries anything but a 200,
// so unknown references and other events are acknowledged and logged.
func PaystackWebhook(orders OrderBook, notifier PaidNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := c.Get(middleware.RawBodyKey)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing webhook body"})
			return
		}
		event, err := paystack.ParseEvent(body.([]byte))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		if event.Event != paystack.EventChargeSuccess {
			log.Printf("ℹ️ Paystack webhook %q ignored", event.Event)
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}

		reference := event.Data.Reference
		if reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing reference"})
			return
		}

		ctx := c.Request.Context()
		list, err := orders.AdminListOrders(ctx)
		if err != nil {
			log.Println("❌ Webhook: failed to fetch orders:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch orders", "details": err.Error()})
			return
		}

		order := findByReference(list, reference)
		if order == nil {
			log.Printf("⚠️ Webhook: no order for reference %s", reference)
			c.JSON(http.StatusOK, gin.H{"message": "No matching order"})
			return
		}
		if order.IsPaid {
			c.JSON(http.StatusOK, gin.H{"message": "Order already paid"})
			return
		}

		paid := true
		status := models.OrderStatusPaymentConfirmed
		updated, err := orders.AdminUpdateOrder(ctx, order.ID, models.OrderUpdate{IsPaid: &paid, Status: &status})
		if err != nil {
			log.Printf("❌ Webhook: failed to mark order %s paid: %v", order.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update order", "details": err.Error()})
			return
		}

		if notifier != nil {
			notifier.OrderPaid(*updated)
		}
		log.Printf("✅ Order %s paid via Paystack (%s)", updated.ID, reference)
		c.JSON(http.StatusOK, gin.H{"message": "Order marked as paid"})
	}
}
