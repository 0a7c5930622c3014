package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Organization, error)
	// Update and GetByID are tenant-scoped: non-admin actors can only
	// touch the organization they belong to.
	Update(ctx context.Context, actor authctx.Actor, req UpdateRequest) (*Organization, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, actor authctx.Actor, id string) (*Organization, error)
	GetByOwner(ctx context.Context, ownerProfileID snowflake.ID) (*Organization, error)
	List(ctx context.Context, actor authctx.Actor, page pagination.Pagination) ([]*Organization, *pagination.PageInfo, error)
}

type CreateRequest struct {
	Name           string  `json:"name"`
	ContactEmail   string  `json:"contact_email"`
	ContactPhone   string  `json:"contact_phone"`
	Address        string  `json:"address"`
	TaxID          string  `json:"tax_id"`
	OwnerProfileID *string `json:"owner_profile_id"`
}

type UpdateRequest struct {
	ID             string  `json:"-"`
	Name           *string `json:"name"`
	ContactEmail   *string `json:"contact_email"`
	ContactPhone   *string `json:"contact_phone"`
	Address        *string `json:"address"`
	TaxID          *string `json:"tax_id"`
	Status         *string `json:"status"`
	OwnerProfileID *string `json:"owner_profile_id"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidOwner        = errors.New("invalid_owner")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("organization_not_found")
)
