package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_1", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/transaction/verify/CD-ok":
			w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","reference":"CD-ok","amount":260000,"currency":"KES"}}`))
		case "/transaction/verify/CD-abandoned":
			w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"abandoned","reference":"CD-abandoned","amount":260000}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
		}
	}))
	defer srv.Close()

	c := NewClient("sk_test_1", srv.URL)
	ctx := context.Background()

	require.NoError(t, c.VerifyPayment(ctx, "CD-ok", 260000))
	assert.ErrorIs(t, c.VerifyPayment(ctx, "CD-ok", 100), ErrAmountMismatch)
	assert.ErrorIs(t, c.VerifyPayment(ctx, "CD-abandoned", 260000), ErrNotSuccessful)
	assert.Error(t, c.VerifyPayment(ctx, "missing", 1))
}

func TestVerifyWithoutSecret(t *testing.T) {
	_, err := NewClient("", "").Verify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSignature(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"CD-1","status":"success"}}`)
	sig := Sign("sk_live", body)

	assert.Len(t, sig, 128)
	assert.True(t, ValidSignature("sk_live", body, sig))
	assert.False(t, ValidSignature("sk_other", body, sig))
	assert.False(t, ValidSignature("sk_live", append(body, ' '), sig))
	assert.False(t, ValidSignature("", body, sig))

	ev, err := ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventChargeSuccess, ev.Event)
	assert.Equal(t, "CD-1", ev.Data.Reference)
}
