// Package uploads issues short-lived upload grants for product and category
// images and stores files for the local driver.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrInvalidToken          = errors.New("invalid or expired upload token")
)

// AllowedContentTypes are the image types the storefront accepts.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

func contentTypeAllowed(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	for _, allowed := range AllowedContentTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

// Backend decides where the browser sends the bytes.
type Backend interface {
	// Prepare returns the URL and method the browser uploads to, and the URL
	// the file will be served from afterwards.
	Prepare(ctx context.Context, pathname, contentType string, ttl time.Duration) (uploadURL, method, publicURL string, err error)
}

// Grant is handed to the browser.
type Grant struct {
	Token       string    `json:"token"`
	Pathname    string    `json:"pathname"`
	ContentType string    `json:"contentType"`
	UploadURL   string    `json:"uploadUrl"`
	Method      string    `json:"method"`
	PublicURL   string    `json:"url"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Claims is the payload of an upload token.
type Claims struct {
	Pathname    string `json:"pathname"`
	ContentType string `json:"content_type"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret  []byte
	ttl     time.Duration
	backend Backend
	now     func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, backend Backend) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, backend: backend, now: time.Now}
}

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// Pathname builds the stored name: folder/unix_sanitized-name.
func Pathname(folder, filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	clean := unsafeChars.ReplaceAllString(base, "_")
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		clean = "upload"
	}
	name := fmt.Sprintf("%d_%s", now.Unix(), clean)

	folder = strings.Trim(unsafeChars.ReplaceAllString(folder, "_"), "._")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// Issue validates the requested file and returns a signed grant for it.
func (i *Issuer) Issue(ctx context.Context, folder, filename, contentType string) (*Grant, error) {
	if !contentTypeAllowed(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
	}
	now := i.now()
	pathname := Pathname(folder, filename, now)
	expires := now.Add(i.ttl)

	claims := Claims{
		Pathname:    pathname,
		ContentType: strings.ToLower(contentType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "upload",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign upload token: %w", err)
	}

	uploadURL, method, publicURL, err := i.backend.Prepare(ctx, pathname, claims.ContentType, i.ttl)
	if err != nil {
		return nil, err
	}
	return &Grant{
		Token:       token,
		Pathname:    pathname,
		ContentType: claims.ContentType,
		UploadURL:   uploadURL,
		Method:      method,
		PublicURL:   publicURL,
		ExpiresAt:   expires,
	}, nil
}

// Verify checks an upload token and returns its claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithSubject("upload"))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
