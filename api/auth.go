package api

import (
	"context"
	"net/http"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// RegisterResponse is what the registration endpoint returns on 201.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// Login exchanges credentials for a token pair. It does not touch the
// attached token store; callers decide what to persist.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	var out models.TokenPair
	if err := c.Do(ctx, http.MethodPost, loginPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/register/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleAuth exchanges a verified Google identity for a token pair.
func (c *Client) GoogleAuth(ctx context.Context, req models.GoogleAuthRequest) (*models.TokenPair, error) {
	var out models.TokenPair
	if err := c.Do(ctx, http.MethodPost, "/auth/google-auth/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.Do(ctx, http.MethodGet, "/auth/me/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe patches the signed-in user's profile.
func (c *Client) UpdateMe(ctx context.Context, fields map[string]any) (*models.User, error) {
	var out models.User
	if err := c.Do(ctx, http.MethodPatch, "/auth/me/", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.Do(ctx, http.MethodPost, "/auth/password-reset/", models.PasswordResetRequest{Email: email}, nil)
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirm) error {
	return c.Do(ctx, http.MethodPost, "/auth/password-reset/confirm/", req, nil)
}
