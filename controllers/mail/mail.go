package mailControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/mailer"
)

// POST /api/send-email
// Guarded by middleware.RequireBearerSecret.
func SendEmail(sender mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg mailer.Message
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}

		messageID, err := sender.Send(c.Request.Context(), msg)
		if err != nil {
			if errors.Is(err, mailer.ErrMissingFields) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
				return
			}
			log.Println("❌ Email send failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "messageId": messageID})
	}
}
