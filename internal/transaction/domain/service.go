package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
)

type Service interface {
	// Checkout prices the cart, creates a pending transaction and a
	// gateway order for it.
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByMachines(ctx context.Context, machineIDs []snowflake.ID, page pagination.Pagination) ([]*Transaction, *pagination.PageInfo, error)
	SumPaidWindow(ctx context.Context, machineIDs []snowflake.ID, start, end time.Time) (WindowTotal, error)
}

type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	MachineID         string         `json:"machine_id"`
	CustomerProfileID *snowflake.ID  `json:"-"`
	Items             []CheckoutItem `json:"items"`
}

type CheckoutResponse struct {
	TransactionID  snowflake.ID `json:"transaction_id,string"`
	GatewayOrderID string       `json:"gateway_order_id"`
	GatewayKeyID   string       `json:"gateway_key_id"`
	TotalPaisa     money.Paisa  `json:"total_paisa"`
	Currency       string       `json:"currency"`
}

var (
	ErrInvalidMachine  = errors.New("invalid_machine")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrEmptyCart       = errors.New("empty_cart")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("transaction_not_found")
	ErrGateway         = errors.New("gateway_unavailable")
)
