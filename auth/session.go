// Package auth issues gateway session tokens and verifies Google sign-ins.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid or expired session token")

// SessionIssuer signs the tokens that identify a visitor's stores. A
// session starts anonymous and keeps its id across login and logout.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issued is returned to the browser on POST /auth/session.
type Issued struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New starts a fresh visitor session.
func (s *SessionIssuer) New() (*Issued, error) {
	id, err := generateRandomString(16)
	if err != nil {
		return nil, err
	}
	return s.Renew("sess_" + id)
}

// Renew issues a new token for an existing session id.
func (s *SessionIssuer) Renew(sessionID string) (*Issued, error) {
	expires := s.now().Add(s.ttl)
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"role":       "visitor",
		"iat":        s.now().Unix(),
		"exp":        expires.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &Issued{SessionID: sessionID, Token: token, ExpiresAt: expires}, nil
}

// Parse validates a session token and returns its session id.
func (s *SessionIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	id, _ := claims["session_id"].(string)
	if id == "" {
		return "", ErrInvalidSession
	}
	return id, nil
}

func generateRandomString(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
