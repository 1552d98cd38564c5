// Package api is the client for the Castle backend REST API. Every endpoint
// the gateway uses has a typed method here; callers never see raw JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	refreshPath = "/auth/token/refresh/"
	loginPath   = "/auth/login/"

	maxBodyBytes = 10 << 20
)

// TokenStore holds the backend token pair of one visitor.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(ctx context.Context, access string) error
	ClearTokens(ctx context.Context) error
}

// Client talks to the backend on behalf of one visitor (or anonymously when
// no TokenStore is attached).
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *slog.Logger
	refreshMu  *sync.Mutex
}

// NewClient returns an anonymous client. A nil httpClient gets a 30s timeout
// default.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		refreshMu:  &sync.Mutex{},
	}
}

// WithTokens returns a client sharing the transport but authenticating with
// the given token store.
func (c *Client) WithTokens(tokens TokenStore) *Client {
	cp := *c
	cp.tokens = tokens
	cp.refreshMu = &sync.Mutex{}
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

// StaticToken is a fixed access token with no refresh, used for the
// gateway's own staff account.
type StaticToken string

func (t StaticToken) AccessToken() string                        { return string(t) }
func (t StaticToken) RefreshToken() string                       { return "" }
func (t StaticToken) SetAccessToken(context.Context, string) error { return nil }
func (t StaticToken) ClearTokens(context.Context) error          { return nil }

// Do sends a JSON request and decodes a JSON response into out (which may be
// nil). A 401 triggers one token refresh and one retry. Non-2xx responses are
// returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	token := c.accessToken()
	status, respBody, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.canRefresh(path) {
		newToken, err := c.refresh(ctx, token)
		if err != nil {
			return err
		}
		status, respBody, err = c.send(ctx, method, path, payload, newToken)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return &APIError{StatusCode: status, Body: respBody}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) accessToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken()
}

func (c *Client) canRefresh(path string) bool {
	if c.tokens == nil || c.tokens.RefreshToken() == "" {
		return false
	}
	p := stripQuery(path)
	return p != refreshPath && p != loginPath
}

// refresh exchanges the refresh token for a new access token. Concurrent
// callers that lost the race reuse the token the winner stored.
func (c *Client) refresh(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.tokens.AccessToken(); current != "" && current != staleToken {
		return current, nil
	}

	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		return "", ErrSessionExpired
	}

	payload, _ := json.Marshal(map[string]string{"refresh": refresh})
	status, body, err := c.send(ctx, http.MethodPost, refreshPath, payload, "")
	if err == nil && (status < 200 || status > 299) {
		err = &APIError{StatusCode: status, Body: body}
	}
	var out struct {
		Access string `json:"access"`
	}
	if err == nil {
		if err = json.Unmarshal(body, &out); err == nil && out.Access == "" {
			err = errors.New("refresh response carried no access token")
		}
	}
	if err != nil {
		c.logger.Warn("token refresh failed, signing out", "error", err)
		if clearErr := c.tokens.ClearTokens(ctx); clearErr != nil {
			c.logger.Error("clear tokens after failed refresh", "error", clearErr)
		}
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	if err := c.tokens.SetAccessToken(ctx, out.Access); err != nil {
		return "", err
	}
	c.logger.Debug("access token refreshed")
	return out.Access, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// getList decodes either a bare JSON array or a paginated
// {"results": [...]} envelope into out.
func (c *Client) getList(ctx context.Context, path string, query url.Values, out any) error {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		trimmed = page.Results
	}
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

func idPath(prefix, id string) string {
	return prefix + url.PathEscape(id) + "/"
}
