package userControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// POST /newsletter
func SubscribeNewsletter() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		var input models.NewsletterSubscription
		if err := c.ShouldBindJSON(&input); err != nil || !strings.Contains(input.Email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
			return
		}
		if err := s.API.SubscribeNewsletter(c.Request.Context(), input.Email); err != nil {
			controllers.RespondError(c, "Subscription failed", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Subscribed successfully"})
	}
}

// POST /contact
func SendContactMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		var input models.ContactMessage
		if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and message are required"})
			return
		}
		if err := s.API.SendContactMessage(c.Request.Context(), input); err != nil {
			controllers.RespondError(c, "Failed to send message", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Message sent"})
	}
}

// GET /notifications
func ListNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		notifications, err := s.API.ListNotifications(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch notifications", err)
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}
