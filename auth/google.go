package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go"
	firebaseauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

var (
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
	ErrInvalidIDToken      = errors.New("invalid or revoked ID token")
)

// GoogleIdentity is the verified subset of a Firebase ID token.
type GoogleIdentity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// AuthRequest builds the body of the backend's Google exchange.
func (g GoogleIdentity) AuthRequest() models.GoogleAuthRequest {
	first, last := models.SplitDisplayName(g.Name)
	return models.GoogleAuthRequest{
		GoogleID:       g.UID,
		Email:          g.Email,
		FirstName:      first,
		LastName:       last,
		ProfilePicture: g.Picture,
	}
}

type tokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// GoogleVerifier checks Firebase ID tokens from the browser's Google popup.
type GoogleVerifier struct {
	client    tokenVerifier
	projectID string
}

// NewGoogleVerifier initialises Firebase from an inline service-account
// JSON. It returns ErrGoogleNotConfigured when either value is empty.
func NewGoogleVerifier(ctx context.Context, projectID, credentialsJSON string) (*GoogleVerifier, error) {
	if projectID == "" || credentialsJSON == "" {
		return nil, ErrGoogleNotConfigured
	}

	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}
	return &GoogleVerifier{client: client, projectID: projectID}, nil
}

// Verify checks signature, revocation, and audience, then extracts the
// profile claims. A token without an email is rejected.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if v == nil {
		return nil, ErrGoogleNotConfigured
	}
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if token.Audience != v.projectID {
		return nil, fmt.Errorf("%w: audience %q", ErrInvalidIDToken, token.Audience)
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: email not found in token", ErrInvalidIDToken)
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	return &GoogleIdentity{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}
