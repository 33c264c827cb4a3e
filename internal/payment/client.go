// Package payment talks to the external payment gateway over its REST
// API and verifies the HMAC signatures the gateway attaches to
// confirmation callbacks.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin gateway client.  Requests authenticate with HTTP
// Basic auth: username is the API key ID, password the key secret.
// The same secret keys callback signatures.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

// NewClient builds a gateway client for the given API base URL and key
// pair.
func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers a pending charge with the gateway and returns
// its order reference.  Amount is in minor currency units.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	payload, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("gateway create order failed: %s (%d)", string(body), res.StatusCode)
	}

	var order createOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return "", fmt.Errorf("parse order response: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("gateway returned no order id")
	}
	return order.ID, nil
}

// VerifySignature checks a confirmation callback signature.  The
// gateway signs the string orderRef + "|" + paymentRef with
// HMAC-SHA256 under the key secret and hex-encodes the digest.
// Comparison is constant-time.
func (c *Client) VerifySignature(orderRef, paymentRef, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
