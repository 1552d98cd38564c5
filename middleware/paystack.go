package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/paystack"
)

const (
	RawBodyKey        = "raw_body"
	paystackSignature = "X-Paystack-Signature"
	maxWebhookBody    = 1 << 20
)

// PaystackSignature verifies the HMAC-SHA512 signature Paystack puts on
// webhook calls. The verified body is stored under RawBodyKey and put back
// on the request.
func PaystackSignature(secretKey string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not configured"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read webhook body"})
			return
		}

		provided := c.GetHeader(paystackSignature)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing webhook signature"})
			return
		}
		if !paystack.ValidSignature(secretKey, body, provided) {
			logger.Warn("paystack webhook signature mismatch", "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			return
		}

		c.Set(RawBodyKey, body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
