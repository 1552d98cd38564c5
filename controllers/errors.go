// Package controllers holds what the handler packages share.
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/checkout"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/paystack"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/session"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/store"
)

// RespondError renders err the way every handler does. Backend errors keep
// their status and pass the backend payload through as "details".
func RespondError(c *gin.Context, fallback string, err error) {
	var apiErr *api.APIError
	var stockErr *store.StockError

	switch {
	case errors.Is(err, api.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Your session has expired. Please log in again."})
	case errors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message(), "details": apiErr.Payload()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error(), "available": stockErr.Available, "clamped": stockErr.Clamped})
	case errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, checkout.ErrNoPaymentPending),
		errors.Is(err, checkout.ErrReferenceMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrIncompleteAddress),
		errors.Is(err, checkout.ErrRegionNotAllowed),
		errors.Is(err, checkout.ErrPODUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidPaymentMethod), errors.Is(err, models.ErrInvalidOrderStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, paystack.ErrNotSuccessful), errors.Is(err, paystack.ErrAmountMismatch):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment could not be verified", "details": err.Error()})
	case errors.Is(err, checkout.ErrPaymentUnsupported), errors.Is(err, paystack.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback, "details": err.Error()})
	}
}

// Session returns the visitor session or writes a 401 and returns nil.
func Session(c *gin.Context) *session.Session {
	s := middleware.CurrentSession(c)
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return s
}

// RequireLogin returns the session of a signed-in visitor or writes a 401.
func RequireLogin(c *gin.Context) *session.Session {
	s := Session(c)
	if s == nil {
		return nil
	}
	if !s.Auth.IsAuthenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in to continue"})
		return nil
	}
	return s
}
