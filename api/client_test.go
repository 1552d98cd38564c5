package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	cleared bool
}

func (m *memTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memTokens) SetAccessToken(_ context.Context, access string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	return nil
}

func (m *memTokens) ClearTokens(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh, m.cleared = "", "", true
	return nil
}

func newTestClient(t *testing.T, h http.Handler, tokens TokenStore) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/api", srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if tokens != nil {
		c = c.WithTokens(tokens)
	}
	return c
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/auth/me/", r.URL.Path)
		w.Write([]byte(`{"id":"u1","email":"jane@example.com","first_name":"Jane"}`))
	})
	c := newTestClient(t, h, &memTokens{access: "abc"})

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "Jane", user.DisplayName())
}

func TestAnonymousClientSendsNoAuth(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":"c1","name":"Tools","slug":"tools"}]`))
	})
	c := newTestClient(t, h, nil)

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "tools", cats[0].Slug)
}

func TestRefreshOnceThenRetry(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()

		switch r.URL.Path {
		case "/api/auth/token/refresh/":
			var body models.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body.Refresh)
			w.Write([]byte(`{"access":"fresh"}`))
		case "/api/orders/":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Given token not valid"}`))
				return
			}
			w.Write([]byte(`[{"id":"o1","status":"placed","total_amount":"2600.00"}]`))
		}
	})
	tokens := &memTokens{access: "stale", refresh: "refresh-1"}
	c := newTestClient(t, h, tokens)

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "2600.00", orders[0].TotalAmount)
	assert.Equal(t, "fresh", tokens.AccessToken())
	assert.Equal(t, 2, calls["/api/orders/"])
	assert.Equal(t, 1, calls["/api/auth/token/refresh/"])
}

func TestRetryStill401IsNotRefreshedAgain(t *testing.T) {
	refreshes := 0
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/token/refresh/" {
			refreshes++
			w.Write([]byte(`{"access":"fresh"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"nope"}`))
	})
	c := newTestClient(t, h, &memTokens{access: "stale", refresh: "r"})

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, 1, refreshes)
}

func TestRefreshFailureExpiresSession(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/token/refresh/" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Token is blacklisted"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	tokens := &memTokens{access: "stale", refresh: "dead"}
	c := newTestClient(t, h, tokens)

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, tokens.cleared)
	assert.Empty(t, tokens.AccessToken())
}

func TestNoRefreshTokenReturns401(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEqual(t, "/api/auth/token/refresh/", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	})
	c := newTestClient(t, h, &memTokens{access: "stale"})

	_, err := c.Me(context.Background())
	assert.False(t, errors.Is(err, ErrSessionExpired))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestLoginFailureDoesNotRefresh(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login/", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	})
	c := newTestClient(t, h, &memTokens{access: "old", refresh: "old"})

	_, err := c.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "bad"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "No active account found with the given credentials", apiErr.Message())
}

func TestValidationErrorVerbatim(t *testing.T) {
	body := `{"items":["This list may not be empty."],"delivery_address":["This field is required."]}`
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(body))
	})
	c := newTestClient(t, h, nil)

	_, err := c.CreateOrder(context.Background(), models.CreateOrderRequest{PaymentMethod: models.PaymentMethodPOD})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.JSONEq(t, body, string(apiErr.Payload()))
	assert.Equal(t, []string{"This field is required."}, apiErr.FieldErrors()["delivery_address"])
}

func TestNonJSONErrorPayload(t *testing.T) {
	e := &APIError{StatusCode: 502, Body: []byte("<html>Bad Gateway</html>")}
	assert.Equal(t, `"<html>Bad Gateway</html>"`, string(e.Payload()))
	assert.Equal(t, "api 502: Bad Gateway", e.Error())
}

func TestCreateOrderPayload(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "2600", got["total_amount"])
		assert.Equal(t, "pod", got["payment_method"])
		items := got["items"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "p1", items[0].(map[string]any)["product_id"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"o-123","status":"placed","payment_method":"pod","total_amount":"2600.00"}`))
	})
	c := newTestClient(t, h, nil)

	order, err := c.CreateOrder(context.Background(), models.CreateOrderRequest{
		PaymentMethod: models.PaymentMethodPOD,
		TotalAmount:   decimal.NewFromInt(2600),
		ShippingCost:  decimal.NewFromInt(200),
		Items:         []models.OrderItemRequest{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "o-123", order.ID)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
}

func TestCalculateShipping(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/settings/calculate_shipping/", r.URL.Path)
		assert.Equal(t, "-1.2921", r.URL.Query().Get("lat"))
		assert.Equal(t, "36.8219", r.URL.Query().Get("lng"))
		w.Write([]byte(`{"cost": 450.5, "distance": 5.01}`))
	})
	c := newTestClient(t, h, nil)

	q, err := c.CalculateShipping(context.Background(), -1.2921, 36.8219)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("450.5").Equal(q.Cost))
	assert.InDelta(t, 5.01, q.Distance, 0.0001)
}

func TestListProductsQueryAndPagination(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "drill", q.Get("search"))
		assert.Equal(t, "power-tools", q.Get("category__slug"))
		assert.Equal(t, "-price", q.Get("ordering"))
		assert.Equal(t, "true", q.Get("on_sale"))
		w.Write([]byte(`{"count":1,"results":[{"id":"p1","name":"Drill","price":"5000.00","discount_price":"4500.00","stock_quantity":3}]}`))
	})
	c := newTestClient(t, h, nil)

	products, err := c.ListProducts(context.Background(), models.ProductQuery{
		Search: "drill", Category: "power-tools", Ordering: "-price", OnSale: true,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "4500", products[0].UnitPrice().String())
}

func TestWishlistRemoveUsesEntryID(t *testing.T) {
	var gotMethod, gotPath string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, h, &memTokens{access: "t"})

	require.NoError(t, c.RemoveFromWishlist(context.Background(), "w-42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/products/wishlist/w-42/", gotPath)
}

func TestTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}
