package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vendora/vendora/pkg/db/pagination"
)

type ListFilter struct {
	CustomerProfileID *snowflake.ID
	Status            string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, machine *VendingMachine) error
	Update(ctx context.Context, db *gorm.DB, machine *VendingMachine) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*VendingMachine, error)
	FindByMachineID(ctx context.Context, db *gorm.DB, machineID string) (*VendingMachine, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*VendingMachine, *pagination.PageInfo, error)
	ListByCustomers(ctx context.Context, db *gorm.DB, customerIDs []snowflake.ID) ([]*VendingMachine, error)
}
