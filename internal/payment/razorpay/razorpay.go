// Package razorpay implements the payment gateway contract against the
// Razorpay Orders API.
package razorpay

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
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vendora/vendora/internal/payment/domain"
	"github.com/vendora/vendora/pkg/money"
)

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type Gateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
	log       *zap.Logger
}

func New(cfg Config, log *zap.Logger) (*Gateway, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keyID == "" || keySecret == "" {
		return nil, domain.ErrInvalidConfig
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &Gateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       log.Named("payment.razorpay"),
	}, nil
}

func (g *Gateway) Provider() string { return "razorpay" }

func (g *Gateway) KeyID() string { return g.keyID }

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (g *Gateway) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "INR"
	}

	body, err := json.Marshal(orderPayload{
		Amount:   int64(req.AmountPaisa),
		Currency: currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.Warn("order create rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return nil, fmt.Errorf("%w: status %d", domain.ErrGateway, resp.StatusCode)
	}

	var order orderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, fmt.Errorf("%w: empty order id", domain.ErrGateway)
	}

	return &domain.Order{
		ID:          order.ID,
		AmountPaisa: money.Paisa(order.Amount),
		Currency:    order.Currency,
		Receipt:     order.Receipt,
		Status:      order.Status,
	}, nil
}

// VerifySignature checks the hex HMAC-SHA256 of "orderID|paymentID"
// keyed with the key secret.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) error {
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.TrimSpace(signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return domain.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return domain.ErrInvalidSignature
	}
	return nil
}
