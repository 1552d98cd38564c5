package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/auth"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/session"
)

const (
	sessionKey   = "session"
	sessionIDKey = "session_id"
	adminKeyFlag = "admin_via_key"
)

// SessionHeader carries the gateway session token when Authorization is
// taken by something else.
const SessionHeader = "X-Session-Token"

const sessionQueryParam = "session_token"

func sessionToken(c *gin.Context) string {
	if tok := c.GetHeader(SessionHeader); tok != "" {
		return tok
	}
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// websocket handshakes from a browser cannot carry headers
	return c.Query(sessionQueryParam)
}

func openSession(c *gin.Context, issuer *auth.SessionIssuer, registry *session.Registry) (bool, error) {
	tokenString := sessionToken(c)
	if tokenString == "" {
		return false, nil
	}
	id, err := issuer.Parse(tokenString)
	if err != nil {
		return false, err
	}
	s, err := registry.Open(c.Request.Context(), id)
	if err != nil {
		return false, err
	}
	c.Set(sessionKey, s)
	c.Set(sessionIDKey, id)
	return true, nil
}

// RequireSession validates the session token and loads the visitor's stores.
func RequireSession(issuer *auth.SessionIssuer, registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := openSession(c, issuer, registry)
		switch {
		case errors.Is(err, auth.ErrInvalidSession):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session token"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session", "details": err.Error()})
			return
		case !ok:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session token is missing"})
			return
		}
		c.Next()
	}
}

// OptionalSession loads the session when a valid token is present and
// carries on anonymously otherwise.
func OptionalSession(issuer *auth.SessionIssuer, registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _ = openSession(c, issuer, registry)
		c.Next()
	}
}

// CurrentSession returns the session loaded by RequireSession, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
