package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(12050), body["amount"])
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "resv-abc", body["receipt"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_xyz","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret")
	ref, err := c.CreateOrder(context.Background(), 12050, "INR", "resv-abc")
	require.NoError(t, err)
	assert.Equal(t, "order_xyz", ref)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret")
	_, err := c.CreateOrder(context.Background(), 100, "INR", "resv-abc")
	assert.Error(t, err)
}

func TestCreateOrderMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret")
	_, err := c.CreateOrder(context.Background(), 100, "INR", "resv-abc")
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("http://unused", "key_id", "key_secret")

	good := sign("key_secret", "order_xyz", "pay_123")
	assert.True(t, c.VerifySignature("order_xyz", "pay_123", good))

	assert.False(t, c.VerifySignature("order_xyz", "pay_123", "deadbeef"))
	assert.False(t, c.VerifySignature("order_xyz", "pay_999", good))
	assert.False(t, c.VerifySignature("order_abc", "pay_123", good))

	wrongKey := sign("other_secret", "order_xyz", "pay_123")
	assert.False(t, c.VerifySignature("order_xyz", "pay_123", wrongKey))
}
