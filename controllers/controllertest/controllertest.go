// Package controllertest runs handlers behind a real session registry and a
// fake backend, the way the gateway wires them.
package controllertest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/auth"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/catalog"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/checkout"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/session"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/storage"
)

// Request is one call the fake backend received.
type Request struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type Gateway struct {
	Router   *gin.Engine
	Registry *session.Registry
	Issuer   *auth.SessionIssuer
	Catalog  *catalog.Catalog

	mu       sync.Mutex
	requests []Request
}

// New starts a fake backend serving handler under /api and a router with no
// routes yet.
func New(t *testing.T, backend http.HandlerFunc, settings checkout.Settings) *Gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	g := &Gateway{
		Router: gin.New(),
		Issuer: auth.NewSessionIssuer("test-secret", time.Hour),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.requests = append(g.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			Auth:   r.Header.Get("Authorization"),
		})
		g.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		w.Header().Set("Content-Type", "application/json")
		backend(w, r)
	}))
	t.Cleanup(srv.Close)

	public := api.NewClient(srv.URL+"/api", srv.Client(), logger)
	g.Catalog = catalog.New(public, nil, time.Minute, logger)
	g.Registry = session.NewRegistry(session.Options{
		Blobs:    storage.NewMemoryStore(),
		API:      public,
		Checkout: settings,
		Logger:   logger,
	})
	t.Cleanup(g.Registry.Close)
	return g
}

// RequireSession is the session middleware bound to this gateway.
func (g *Gateway) RequireSession() gin.HandlerFunc {
	return middleware.RequireSession(g.Issuer, g.Registry)
}

// Guest starts an anonymous visitor session.
func (g *Gateway) Guest(t *testing.T) (string, *session.Session) {
	t.Helper()
	issued, err := g.Issuer.New()
	require.NoError(t, err)
	s, err := g.Registry.Open(context.Background(), issued.SessionID)
	require.NoError(t, err)
	return issued.Token, s
}

// SignedIn starts a session holding backend tokens for user.
func (g *Gateway) SignedIn(t *testing.T, user models.User) (string, *session.Session) {
	t.Helper()
	token, s := g.Guest(t)
	ctx := context.Background()
	require.NoError(t, s.Auth.SetTokens(ctx, "access-1", "refresh-1"))
	require.NoError(t, s.Auth.SetUser(ctx, &user))
	return token, s
}

// Do sends a request through the router with the session token as bearer.
func (g *Gateway) Do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.Router.ServeHTTP(w, req)
	return w
}

// Requests returns what the backend has received so far.
func (g *Gateway) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Request, len(g.requests))
	copy(out, g.requests)
	return out
}

// Find returns the first backend request with method and path.
func (g *Gateway) Find(method, path string) (Request, bool) {
	for _, r := range g.Requests() {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}
