package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/coinpayment/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.CoinPayment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.CoinPayment, error) {
	var payment domain.CoinPayment
	err := db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) ListByMachines(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, page pagination.Pagination) ([]*domain.CoinPayment, *pagination.PageInfo, error) {
	if len(machineIDs) == 0 {
		return nil, &pagination.PageInfo{HasMore: false}, nil
	}

	size := page.PageSize
	if size <= 0 {
		size = 50
	}

	stmt := db.WithContext(ctx).
		Model(&domain.CoinPayment{}).
		Where("machine_id IN ?", machineIDs).
		Order("created_at desc, id desc")
	stmt = pagination.Apply(stmt, page)

	var payments []*domain.CoinPayment
	if err := stmt.Find(&payments).Error; err != nil {
		return nil, nil, err
	}

	info := pagination.BuildCursorPageInfo(payments, size, func(p *domain.CoinPayment) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
		return token
	})
	if len(payments) > size {
		payments = payments[:size]
	}
	return payments, info, nil
}

func (r *repo) SumWindow(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, start, end time.Time) (domain.WindowTotal, error) {
	if len(machineIDs) == 0 {
		return domain.WindowTotal{}, nil
	}

	var total domain.WindowTotal
	err := db.WithContext(ctx).
		Model(&domain.CoinPayment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_paisa), 0) AS amount_paisa").
		Where("machine_id IN ?", machineIDs).
		Where("dispensed = ?", true).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Scan(&total).Error
	if err != nil {
		return domain.WindowTotal{}, err
	}
	return total, nil
}
