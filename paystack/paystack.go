// Package paystack verifies card and M-Pesa payments made through the
// Paystack popup and checks webhook signatures.
package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotConfigured  = errors.New("paystack secret key is not set")
	ErrNotSuccessful  = errors.New("payment was not successful")
	ErrAmountMismatch = errors.New("paid amount does not match order total")
)

// Transaction is the part of Paystack's transaction record we use.
type Transaction struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
	Channel   string `json:"channel"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

type verifyResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Client{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Verify fetches the transaction behind reference.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach paystack: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify error (%d): %s", resp.StatusCode, string(body))
	}

	var vr verifyResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("failed to parse paystack response: %w", err)
	}
	if !vr.Status {
		return nil, fmt.Errorf("paystack: %s", vr.Message)
	}
	return &vr.Data, nil
}

// VerifyPayment checks that reference was paid successfully for exactly
// amountMinor.
func (c *Client) VerifyPayment(ctx context.Context, reference string, amountMinor int64) error {
	tx, err := c.Verify(ctx, reference)
	if err != nil {
		return err
	}
	if tx.Status != "success" {
		return fmt.Errorf("%w: status %s", ErrNotSuccessful, tx.Status)
	}
	if tx.Amount != amountMinor {
		return fmt.Errorf("%w: paid %d, expected %d", ErrAmountMismatch, tx.Amount, amountMinor)
	}
	return nil
}

// Sign computes the x-paystack-signature of a webhook body.
func Sign(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature compares a webhook signature in constant time.
func ValidSignature(secretKey string, body []byte, signature string) bool {
	if secretKey == "" || signature == "" {
		return false
	}
	expected := Sign(secretKey, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Event is a webhook delivery.
type Event struct {
	Event string      `json:"event"`
	Data  Transaction `json:"data"`
}

const EventChargeSuccess = "charge.success"

func ParseEvent(body []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("invalid webhook body: %w", err)
	}
	return &e, nil
}
