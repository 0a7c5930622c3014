package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/organization/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Create(org).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Save(org).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Organization{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repo) FindByOwner(ctx context.Context, db *gorm.DB, ownerProfileID snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Where("owner_profile_id = ?", ownerProfileID).First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.Organization, *pagination.PageInfo, error) {
	size := page.PageSize
	if size <= 0 {
		size = 50
	}

	stmt := db.WithContext(ctx).
		Model(&domain.Organization{}).
		Order("created_at desc, id desc")
	stmt = pagination.Apply(stmt, page)

	var orgs []*domain.Organization
	if err := stmt.Find(&orgs).Error; err != nil {
		return nil, nil, err
	}

	info := pagination.BuildCursorPageInfo(orgs, size, func(org *domain.Organization) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        org.ID.String(),
			CreatedAt: org.CreatedAt.Format(time.RFC3339),
		})
		return token
	})
	if len(orgs) > size {
		orgs = orgs[:size]
	}
	return orgs, info, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]*domain.Organization, error) {
	var orgs []*domain.Organization
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
