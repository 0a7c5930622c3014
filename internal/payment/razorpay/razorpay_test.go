package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendora/vendora/internal/payment/domain"
)

func newTestGateway(t *testing.T, baseURL string) *Gateway {
	t.Helper()
	g, err := New(Config{
		KeyID:     "rzp_test_key",
		KeySecret: "test_secret",
		BaseURL:   baseURL,
	}, zap.NewNop())
	require.NoError(t, err)
	return g
}

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{KeySecret: "s"}, zap.NewNop())
	require.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = New(Config{KeyID: "k"}, zap.NewNop())
	require.ErrorIs(t, err, domain.ErrInvalidConfig)

	g, err := New(Config{KeyID: " k ", KeySecret: " s "}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "k", g.KeyID())
	require.Equal(t, "razorpay", g.Provider())
}

func TestVerifySignature(t *testing.T) {
	g := newTestGateway(t, "")

	sig := signPayload("test_secret", "order_123", "pay_456")
	require.NoError(t, g.VerifySignature("order_123", "pay_456", sig))

	// Surrounding whitespace is tolerated.
	require.NoError(t, g.VerifySignature(" order_123 ", "pay_456", " "+sig+" "))

	require.ErrorIs(t, g.VerifySignature("order_123", "pay_456", "deadbeef"), domain.ErrInvalidSignature)
	require.ErrorIs(t, g.VerifySignature("order_999", "pay_456", sig), domain.ErrInvalidSignature)
	require.ErrorIs(t, g.VerifySignature("order_123", "pay_999", sig), domain.ErrInvalidSignature)
	require.ErrorIs(t, g.VerifySignature("", "pay_456", sig), domain.ErrInvalidSignature)
	require.ErrorIs(t, g.VerifySignature("order_123", "pay_456", ""), domain.ErrInvalidSignature)
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "test_secret", pass)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.EqualValues(t, 10000, payload["amount"])
		require.Equal(t, "INR", payload["currency"])
		require.Equal(t, "INV-000001", payload["receipt"])

		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_abc",
			"amount":   10000,
			"currency": "INR",
			"receipt":  "INV-000001",
			"status":   "created",
		})
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)
	order, err := g.CreateOrder(context.Background(), domain.CreateOrderRequest{
		AmountPaisa: 10000,
		Receipt:     "INV-000001",
		Notes:       map[string]string{"invoice_id": "1"},
	})
	require.NoError(t, err)
	require.Equal(t, "order_abc", order.ID)
	require.EqualValues(t, 10000, order.AmountPaisa)
	require.Equal(t, "INR", order.Currency)
	require.Equal(t, "created", order.Status)
}

func TestCreateOrder_GatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"bad key"}}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)
	_, err := g.CreateOrder(context.Background(), domain.CreateOrderRequest{AmountPaisa: 100})
	require.ErrorIs(t, err, domain.ErrGateway)
}

func TestCreateOrder_EmptyOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"amount": 100})
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)
	_, err := g.CreateOrder(context.Background(), domain.CreateOrderRequest{AmountPaisa: 100})
	require.ErrorIs(t, err, domain.ErrGateway)
}
