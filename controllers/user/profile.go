package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// GET /auth/me
// Refreshes the stored profile from the backend.
func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		user, err := s.API.Me(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch profile", err)
			return
		}
		if err := s.Auth.SetUser(c.Request.Context(), user); err != nil {
			controllers.RespondError(c, "Failed to store profile", err)
			return
		}
		c.JSON(http.StatusOK, s.Auth.Snapshot())
	}
}

// PATCH /auth/me
func UpdateMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}

		var updates map[string]any
		if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		delete(updates, "is_staff")

		user, err := s.API.UpdateMe(c.Request.Context(), updates)
		if err != nil {
			controllers.RespondError(c, "Failed to update user", err)
			return
		}
		if err := s.Auth.SetUser(c.Request.Context(), user); err != nil {
			controllers.RespondError(c, "Failed to store profile", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /addresses
func ListAddresses() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		addresses, err := s.API.ListAddresses(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch addresses", err)
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// POST /addresses
func CreateAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		var input models.Address
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		addr, err := s.API.CreateAddress(c.Request.Context(), input)
		if err != nil {
			controllers.RespondError(c, "Failed to save address", err)
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

// PATCH /addresses/:id
func UpdateAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		var updates map[string]any
		if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		addr, err := s.API.UpdateAddress(c.Request.Context(), c.Param("id"), updates)
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
				return
			}
			controllers.RespondError(c, "Failed to update address", err)
			return
		}
		c.JSON(http.StatusOK, addr)
	}
}

// DELETE /addresses/:id
func DeleteAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		if err := s.API.DeleteAddress(c.Request.Context(), c.Param("id")); err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
				return
			}
			controllers.RespondError(c, "Failed to delete address", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
