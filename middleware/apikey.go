package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
)

func secretMatches(given, want string) bool {
	return want != "" && subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}

// RequireAdmin lets a request through with a matching X-API-KEY, or with a
// session whose signed-in user is staff. Run it after OptionalSession.
func RequireAdmin(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretMatches(c.GetHeader("X-API-KEY"), apiKey) {
			c.Set(adminKeyFlag, true)
			c.Next()
			return
		}
		s := CurrentSession(c)
		if s == nil || !s.Auth.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}
		if !s.Auth.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// AdminClient picks the backend client for an admin request: the staff
// user's own when signed in, the gateway service account for API-key calls.
func AdminClient(c *gin.Context, service *api.Client) *api.Client {
	if c.GetBool(adminKeyFlag) {
		return service
	}
	if s := CurrentSession(c); s != nil {
		return s.API
	}
	return service
}

// RequireBearerSecret guards server-to-server routes with a shared secret.
func RequireBearerSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !secretMatches(given, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
