package userControllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/auth"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/session"
)

type GoogleLoginInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

// POST /auth/session
// A still-valid token is renewed for the same session; anything else starts
// a fresh one.
func CreateSession(issuer *auth.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var issued *auth.Issued
		var err error
		if s := middleware.CurrentSession(c); s != nil {
			issued, err = issuer.Renew(s.ID)
		} else {
			issued, err = issuer.New()
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, issued)
	}
}

// completeLogin stores the token pair, loads the profile when the backend
// did not include it, and pulls the server wishlist. A failed wishlist sync
// keeps the local list and does not fail the login.
func completeLogin(ctx context.Context, s *session.Session, pair *models.TokenPair) (*models.User, error) {
	if err := s.Auth.SetTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return nil, err
	}

	user := pair.User
	if user == nil {
		me, err := s.API.Me(ctx)
		if err != nil {
			_ = s.Auth.Logout(ctx)
			return nil, err
		}
		user = me
	}
	if err := s.Auth.SetUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.Wishlist.SyncWithAPI(ctx); err != nil {
		log.Printf("⚠️ Wishlist sync after login failed: %v", err)
	}
	return user, nil
}

// POST /auth/login
func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}

		var input models.LoginRequest
		if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		pair, err := s.API.Login(c.Request.Context(), input)
		if err != nil {
			controllers.RespondError(c, "Login failed", err)
			return
		}
		user, err := completeLogin(c.Request.Context(), s, pair)
		if err != nil {
			controllers.RespondError(c, "Login failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user, "wishlist": s.Wishlist.Items()})
	}
}

// POST /auth/register
func Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}

		var input models.RegisterRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		resp, err := s.API.Register(c.Request.Context(), input)
		if err != nil {
			controllers.RespondError(c, "Registration failed", err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// POST /auth/google
func GoogleLogin(verifier *auth.GoogleVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		if verifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not available"})
			return
		}

		var input GoogleLoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), input.IDToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidIDToken) {
				log.Printf("❌ ID token verification failed: %v", err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
				return
			}
			controllers.RespondError(c, "Google sign-in failed", err)
			return
		}

		pair, err := s.API.GoogleAuth(c.Request.Context(), identity.AuthRequest())
		if err != nil {
			controllers.RespondError(c, "Google sign-in failed", err)
			return
		}
		user, err := completeLogin(c.Request.Context(), s, pair)
		if err != nil {
			controllers.RespondError(c, "Google sign-in failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user, "wishlist": s.Wishlist.Items()})
	}
}

// POST /auth/logout
// Only the auth state is cleared; cart and wishlist stay with the session.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		if err := s.Auth.Logout(c.Request.Context()); err != nil {
			controllers.RespondError(c, "Logout failed", err)
			return
		}
		s.Checkout.Reset()
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// POST /auth/password-reset
func RequestPasswordReset() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		var input models.PasswordResetRequest
		if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		if err := s.API.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
			controllers.RespondError(c, "Password reset failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "If that email is registered, a reset link is on its way"})
	}
}

// POST /auth/password-reset/confirm
func ConfirmPasswordReset() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		var input models.PasswordResetConfirm
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := s.API.ConfirmPasswordReset(c.Request.Context(), input); err != nil {
			controllers.RespondError(c, "Password reset failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
