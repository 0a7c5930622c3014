package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/transaction/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Save(txn).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := db.WithContext(ctx).Where("id = ?", id).First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *repo) FindByGatewayOrderID(ctx context.Context, db *gorm.DB, orderID string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := db.WithContext(ctx).Where("gateway_order_id = ?", strings.TrimSpace(orderID)).First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *repo) ListByMachines(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, page pagination.Pagination) ([]*domain.Transaction, *pagination.PageInfo, error) {
	if len(machineIDs) == 0 {
		return nil, &pagination.PageInfo{HasMore: false}, nil
	}

	size := page.PageSize
	if size <= 0 {
		size = 50
	}

	stmt := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("machine_id IN ?", machineIDs).
		Order("created_at desc, id desc")
	stmt = pagination.Apply(stmt, page)

	var txns []*domain.Transaction
	if err := stmt.Find(&txns).Error; err != nil {
		return nil, nil, err
	}

	info := pagination.BuildCursorPageInfo(txns, size, func(t *domain.Transaction) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        t.ID.String(),
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
		return token
	})
	if len(txns) > size {
		txns = txns[:size]
	}
	return txns, info, nil
}

func (r *repo) SumPaidWindow(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, start, end time.Time) (domain.WindowTotal, error) {
	if len(machineIDs) == 0 {
		return domain.WindowTotal{}, nil
	}

	var total domain.WindowTotal
	err := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_paisa), 0) AS amount_paisa").
		Where("machine_id IN ?", machineIDs).
		Where("status = ?", domain.StatusPaid).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Scan(&total).Error
	if err != nil {
		return domain.WindowTotal{}, err
	}
	return total, nil
}
