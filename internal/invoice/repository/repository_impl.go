package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/invoice/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.OrganizationInvoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.OrganizationInvoice) error {
	return db.WithContext(ctx).Save(invoice).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.OrganizationInvoice{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.OrganizationInvoice, error) {
	var invoice domain.OrganizationInvoice
	err := db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindByOrgPeriod(ctx context.Context, db *gorm.DB, orgID snowflake.ID, start, end time.Time) (*domain.OrganizationInvoice, error) {
	var invoice domain.OrganizationInvoice
	err := db.WithContext(ctx).
		Where("organization_id = ? AND period_start = ? AND period_end = ?", orgID, start, end).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.OrganizationInvoice, *pagination.PageInfo, error) {
	size := page.PageSize
	if size <= 0 {
		size = 50
	}

	stmt := db.WithContext(ctx).
		Model(&domain.OrganizationInvoice{}).
		Order("created_at desc, id desc")
	if filter.OrganizationID != nil {
		stmt = stmt.Where("organization_id = ?", *filter.OrganizationID)
	}
	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", filter.Statuses)
	}
	stmt = pagination.Apply(stmt, page)

	var invoices []*domain.OrganizationInvoice
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, nil, err
	}

	info := pagination.BuildCursorPageInfo(invoices, size, func(inv *domain.OrganizationInvoice) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        inv.ID.String(),
			CreatedAt: inv.CreatedAt.Format(time.RFC3339),
		})
		return token
	})
	if len(invoices) > size {
		invoices = invoices[:size]
	}
	return invoices, info, nil
}

func (r *repo) ListPendingDueBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*domain.OrganizationInvoice, error) {
	var invoices []*domain.OrganizationInvoice
	err := db.WithContext(ctx).
		Where("status = ? AND due_at IS NOT NULL AND due_at < ?", domain.StatusPending, cutoff).
		Order("due_at asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ListByStatus(ctx context.Context, db *gorm.DB, status domain.InvoiceStatus) ([]*domain.OrganizationInvoice, error) {
	var invoices []*domain.OrganizationInvoice
	err := db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.OrganizationPayment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) UpdatePayment(ctx context.Context, db *gorm.DB, payment *domain.OrganizationPayment) error {
	return db.WithContext(ctx).Save(payment).Error
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*domain.OrganizationPayment, error) {
	var payments []*domain.OrganizationPayment
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at asc, id asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) FindPaymentByGatewayOrderID(ctx context.Context, db *gorm.DB, orderID string) (*domain.OrganizationPayment, error) {
	var payment domain.OrganizationPayment
	err := db.WithContext(ctx).
		Where("gateway_order_id = ?", strings.TrimSpace(orderID)).
		First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) SumSettledPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (money.Paisa, error) {
	var total struct {
		AmountPaisa money.Paisa `gorm:"column:amount_paisa"`
	}
	err := db.WithContext(ctx).
		Model(&domain.OrganizationPayment{}).
		Select("COALESCE(SUM(amount_paisa), 0) AS amount_paisa").
		Where("invoice_id = ? AND status = ?", invoiceID, domain.PaymentStatusSuccess).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.AmountPaisa, nil
}
