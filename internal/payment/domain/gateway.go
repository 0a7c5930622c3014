// Package domain defines the payment gateway contract.
package domain

import (
	"context"
	"errors"

	"github.com/vendora/vendora/pkg/money"
)

type CreateOrderRequest struct {
	AmountPaisa money.Paisa
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type Order struct {
	ID          string
	AmountPaisa money.Paisa
	Currency    string
	Receipt     string
	Status      string
}

// Gateway creates checkout orders and verifies capture signatures.
type Gateway interface {
	Provider() string
	KeyID() string
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	// VerifySignature checks the gateway signature over the
	// order/payment pair in constant time.
	VerifySignature(orderID, paymentID, signature string) error
}

var (
	ErrInvalidConfig    = errors.New("invalid_gateway_config")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrGateway          = errors.New("gateway_error")
)
