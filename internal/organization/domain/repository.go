package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vendora/vendora/pkg/db/pagination"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, org *Organization) error
	Update(ctx context.Context, db *gorm.DB, org *Organization) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Organization, error)
	FindByOwner(ctx context.Context, db *gorm.DB, ownerProfileID snowflake.ID) (*Organization, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Organization, *pagination.PageInfo, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*Organization, error)
}
