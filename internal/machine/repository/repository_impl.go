package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/machine/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, machine *domain.VendingMachine) error {
	return db.WithContext(ctx).Create(machine).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, machine *domain.VendingMachine) error {
	return db.WithContext(ctx).Save(machine).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.VendingMachine{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.VendingMachine, error) {
	var machine domain.VendingMachine
	err := db.WithContext(ctx).Where("id = ?", id).First(&machine).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &machine, nil
}

func (r *repo) FindByMachineID(ctx context.Context, db *gorm.DB, machineID string) (*domain.VendingMachine, error) {
	var machine domain.VendingMachine
	err := db.WithContext(ctx).Where("machine_id = ?", strings.TrimSpace(machineID)).First(&machine).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &machine, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.VendingMachine, *pagination.PageInfo, error) {
	size := page.PageSize
	if size <= 0 {
		size = 50
	}

	stmt := db.WithContext(ctx).
		Model(&domain.VendingMachine{}).
		Order("created_at desc, id desc")
	if filter.CustomerProfileID != nil {
		stmt = stmt.Where("customer_profile_id = ?", *filter.CustomerProfileID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = pagination.Apply(stmt, page)

	var machines []*domain.VendingMachine
	if err := stmt.Find(&machines).Error; err != nil {
		return nil, nil, err
	}

	info := pagination.BuildCursorPageInfo(machines, size, func(m *domain.VendingMachine) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        m.ID.String(),
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
		return token
	})
	if len(machines) > size {
		machines = machines[:size]
	}
	return machines, info, nil
}

func (r *repo) ListByCustomers(ctx context.Context, db *gorm.DB, customerIDs []snowflake.ID) ([]*domain.VendingMachine, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	var machines []*domain.VendingMachine
	err := db.WithContext(ctx).
		Where("customer_profile_id IN ?", customerIDs).
		Order("created_at asc, id asc").
		Find(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}
