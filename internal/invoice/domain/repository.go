package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
)

type ListFilter struct {
	OrganizationID *snowflake.ID
	Statuses       []InvoiceStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *OrganizationInvoice) error
	Update(ctx context.Context, db *gorm.DB, invoice *OrganizationInvoice) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*OrganizationInvoice, error)
	FindByOrgPeriod(ctx context.Context, db *gorm.DB, orgID snowflake.ID, start, end time.Time) (*OrganizationInvoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*OrganizationInvoice, *pagination.PageInfo, error)
	ListPendingDueBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*OrganizationInvoice, error)
	ListByStatus(ctx context.Context, db *gorm.DB, status InvoiceStatus) ([]*OrganizationInvoice, error)

	InsertPayment(ctx context.Context, db *gorm.DB, payment *OrganizationPayment) error
	UpdatePayment(ctx context.Context, db *gorm.DB, payment *OrganizationPayment) error
	ListPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*OrganizationPayment, error)
	FindPaymentByGatewayOrderID(ctx context.Context, db *gorm.DB, orderID string) (*OrganizationPayment, error)
	// SumSettledPayments totals rows in success status for the invoice.
	SumSettledPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (money.Paisa, error)
}
