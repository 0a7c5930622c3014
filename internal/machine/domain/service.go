package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*VendingMachine, error)
	Update(ctx context.Context, req UpdateRequest) (*VendingMachine, error)
	Delete(ctx context.Context, id string) error
	// GetByID hides machines not assigned to a non-admin actor.
	GetByID(ctx context.Context, actor authctx.Actor, id string) (*VendingMachine, error)
	List(ctx context.Context, req ListRequest) ([]*VendingMachine, *pagination.PageInfo, error)
	ListByCustomers(ctx context.Context, customerIDs []snowflake.ID) ([]*VendingMachine, error)
	CheckIn(ctx context.Context, req CheckInRequest) (*VendingMachine, error)
}

type CreateRequest struct {
	MachineID         string         `json:"machine_id"`
	MACAddress        string         `json:"mac_address"`
	Name              string         `json:"name"`
	Location          string         `json:"location"`
	CustomerProfileID *string        `json:"customer_profile_id"`
	Telemetry         map[string]any `json:"telemetry"`
}

type UpdateRequest struct {
	ID                string  `json:"-"`
	Name              *string `json:"name"`
	Location          *string `json:"location"`
	Status            *string `json:"status"`
	CustomerProfileID *string `json:"customer_profile_id"`
}

type ListRequest struct {
	CustomerProfileID *snowflake.ID
	Status            string
	Page              pagination.Pagination
}

// CheckInRequest is the heartbeat a machine posts. Status and telemetry
// are optional; an empty status means "online".
type CheckInRequest struct {
	MachineID  string         `json:"machine_id"`
	MACAddress string         `json:"mac_address"`
	Status     string         `json:"status"`
	Telemetry  map[string]any `json:"telemetry"`
}

var (
	ErrInvalidMachineID = errors.New("invalid_machine_id")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrMachineIDTaken   = errors.New("machine_id_taken")
	ErrNotFound         = errors.New("machine_not_found")
)
