package checkoutControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

type DeliveryInput struct {
	AddressID string          `json:"address_id"`
	Address   *models.Address `json:"address"`
	Email     string          `json:"email"`
}

type PaymentMethodInput struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type CompletePaymentInput struct {
	Reference string `json:"reference" binding:"required"`
}

// GET /checkout
func GetCheckout() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		c.JSON(http.StatusOK, s.Checkout.State())
	}
}

// POST /checkout/delivery
// Either a saved address id or a typed address; the buyer email defaults to
// the account's.
func SetDelivery() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}

		var input DeliveryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var addr models.Address
		switch {
		case input.AddressID != "":
			saved, err := s.API.ListAddresses(c.Request.Context())
			if err != nil {
				controllers.RespondError(c, "Failed to load addresses", err)
				return
			}
			found := false
			for _, a := range saved {
				if a.ID == input.AddressID {
					addr, found = a, true
					break
				}
			}
			if !found {
				c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
				return
			}
		case input.Address != nil:
			addr = *input.Address
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "address or address_id is required"})
			return
		}

		email := input.Email
		if email == "" {
			if u := s.Auth.User(); u != nil {
				email = u.Email
			}
		}

		if err := s.Checkout.SetDelivery(c.Request.Context(), addr, email); err != nil {
			controllers.RespondError(c, "Failed to set delivery", err)
			return
		}
		c.JSON(http.StatusOK, s.Checkout.State())
	}
}

// POST /checkout/continue
func ContinueToPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		if err := s.Checkout.ContinueToPayment(); err != nil {
			controllers.RespondError(c, "Failed to continue", err)
			return
		}
		c.JSON(http.StatusOK, s.Checkout.State())
	}
}

// POST /checkout/back
func Back() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		if err := s.Checkout.Back(); err != nil {
			controllers.RespondError(c, "Failed to go back", err)
			return
		}
		c.JSON(http.StatusOK, s.Checkout.State())
	}
}

// POST /checkout/payment-method
func SelectPaymentMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}

		var input PaymentMethodInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		method, err := models.ParsePaymentMethod(input.PaymentMethod)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.Checkout.SelectPaymentMethod(method); err != nil {
			controllers.RespondError(c, "Failed to select payment method", err)
			return
		}
		c.JSON(http.StatusOK, s.Checkout.State())
	}
}

// POST /checkout/pay
// Pay on delivery answers 201 with the order; card payments answer 200 with
// the widget settings.
func Pay() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		result, err := s.Checkout.Pay(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to place order", err)
			return
		}
		if result.Order != nil {
			c.JSON(http.StatusCreated, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// POST /checkout/payment/complete
func CompletePayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}

		var input CompletePaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		order, err := s.Checkout.CompletePayment(c.Request.Context(), input.Reference)
		if err != nil {
			controllers.RespondError(c, "Failed to place order", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

// POST /checkout/payment/cancel
func CancelPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		s.Checkout.CancelPayment()
		c.JSON(http.StatusOK, s.Checkout.State())
	}
}

// POST /checkout/reset
func Reset() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		s.Checkout.Reset()
		c.JSON(http.StatusOK, s.Checkout.State())
	}
}
