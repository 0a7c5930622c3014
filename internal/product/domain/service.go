package domain

import (
	"context"
	"errors"

	"github.com/vendora/vendora/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	Update(ctx context.Context, req UpdateRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, activeOnly bool, page pagination.Pagination) ([]*Product, *pagination.PageInfo, error)
}

type CreateRequest struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	PricePaisa int64  `json:"price_paisa"`
}

type UpdateRequest struct {
	ID         string  `json:"-"`
	Name       *string `json:"name"`
	PricePaisa *int64  `json:"price_paisa"`
	Active     *bool   `json:"active"`
}

var (
	ErrInvalidSKU   = errors.New("invalid_sku")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidID    = errors.New("invalid_id")
	ErrSKUTaken     = errors.New("sku_taken")
	ErrNotFound     = errors.New("product_not_found")
)
