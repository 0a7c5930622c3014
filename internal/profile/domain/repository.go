package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, profile *Profile) error
	Update(ctx context.Context, db *gorm.DB, profile *Profile) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Profile, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Profile, error)
	ListByOrganization(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*Profile, error)
}
