package routes

import (
	"github.com/gin-gonic/gin"

	userControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/user"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	// Issuing a session needs no token; renewing one reads it when present.
	r.POST("/auth/session", d.optionalSession(), userControllers.CreateSession(d.Issuer))

	authGroup := r.Group("/auth")
	authGroup.Use(d.requireSession())
	{
		authGroup.POST("/login", userControllers.Login())
		authGroup.POST("/register", userControllers.Register())
		authGroup.POST("/google", userControllers.GoogleLogin(d.Google))
		authGroup.POST("/logout", userControllers.Logout())
		authGroup.GET("/me", userControllers.GetMe())
		authGroup.PATCH("/me", userControllers.UpdateMe())
		authGroup.POST("/password-reset", userControllers.RequestPasswordReset())
		authGroup.POST("/password-reset/confirm", userControllers.ConfirmPasswordReset())
	}
}
