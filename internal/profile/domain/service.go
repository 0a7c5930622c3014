package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateProfileRequest struct {
	Email          string
	Name           string
	Password       string
	Role           string
	AccountType    string
	OrganizationID *snowflake.ID
	Permissions    Permissions
}

type UpdateProfileRequest struct {
	ID             string
	Name           *string
	Role           *string
	AccountType    *string
	OrganizationID *snowflake.ID
	Permissions    *Permissions
}

type Service interface {
	Create(context.Context, CreateProfileRequest) (Profile, error)
	Update(context.Context, UpdateProfileRequest) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]Profile, error)
}

var (
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidAccountType = errors.New("invalid_account_type")
	ErrInvalidID          = errors.New("invalid_id")
	ErrEmailTaken         = errors.New("email_taken")
	ErrNotFound           = errors.New("not_found")
)
