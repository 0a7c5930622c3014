package domain

import (
	"context"
	"errors"

	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
)

type VerifyRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

// Service settles gateway captures against pending transactions.
type Service interface {
	// VerifyAndRecord validates the capture signature and marks the
	// matching transaction paid. Replaying a capture that was already
	// recorded returns the settled transaction unchanged.
	VerifyAndRecord(ctx context.Context, req VerifyRequest) (*transactiondomain.Transaction, error)
}

var (
	ErrOrderNotFound  = errors.New("order_not_found")
	ErrAlreadySettled = errors.New("order_already_settled")
)
