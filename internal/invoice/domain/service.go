package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
)

type CreateRequest struct {
	OrganizationID string    `json:"organization_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
}

// GenerationResult is one organization's outcome of a bulk run.
// Failures stay in their row so one organization cannot abort the run.
type GenerationResult struct {
	OrganizationID snowflake.ID `json:"organization_id,string"`
	InvoiceID      snowflake.ID `json:"invoice_id,string,omitempty"`
	InvoiceNumber  string       `json:"invoice_number,omitempty"`
	Skipped        bool         `json:"skipped,omitempty"`
	Error          string       `json:"error,omitempty"`
}

type RecordPaymentRequest struct {
	InvoiceID   string `json:"-"`
	AmountPaisa int64  `json:"amount_paisa"`
	Method      string `json:"method"`
	Reference   string `json:"reference"`
	Note        string `json:"note"`
}

type ListRequest struct {
	OrganizationID string   `form:"organization_id"`
	Statuses       []string `form:"status"`
	Page           pagination.Pagination
}

// OnlineOrder is what the billing portal needs to open the gateway's
// checkout widget.
type OnlineOrder struct {
	InvoiceID      snowflake.ID `json:"invoice_id,string"`
	GatewayOrderID string       `json:"gateway_order_id"`
	GatewayKeyID   string       `json:"gateway_key_id"`
	AmountPaisa    money.Paisa  `json:"amount_paisa"`
	Currency       string       `json:"currency"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

type Service interface {
	// Create issues the invoice for one organization and period. The
	// period must already be closed; a second invoice for the same
	// period fails with ErrDuplicatePeriod.
	Create(ctx context.Context, req CreateRequest) (*OrganizationInvoice, error)
	// BulkGenerateMonthly invoices every organization for the calendar
	// month containing ref, with per-organization failure isolation.
	BulkGenerateMonthly(ctx context.Context, ref time.Time) ([]GenerationResult, error)
	RecordManualPayment(ctx context.Context, actor authctx.Actor, req RecordPaymentRequest) (*OrganizationInvoice, error)
	CreateOnlineOrder(ctx context.Context, actor authctx.Actor, invoiceID string) (*OnlineOrder, error)
	VerifyOnlinePayment(ctx context.Context, req VerifyPaymentRequest) (*OrganizationInvoice, error)
	SendInvoiceEmail(ctx context.Context, invoiceID string) error
	SendDueReminders(ctx context.Context) (int, error)
	MarkOverdue(ctx context.Context) (int64, error)
	Get(ctx context.Context, actor authctx.Actor, invoiceID string) (*OrganizationInvoice, error)
	List(ctx context.Context, actor authctx.Actor, req ListRequest) ([]*OrganizationInvoice, *pagination.PageInfo, error)
	ListPayments(ctx context.Context, actor authctx.Actor, invoiceID string) ([]*OrganizationPayment, error)
	Cancel(ctx context.Context, invoiceID string) (*OrganizationInvoice, error)
	Delete(ctx context.Context, invoiceID string) error
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidMethod       = errors.New("invalid_method")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrDuplicatePeriod     = errors.New("period_already_invoiced")
	ErrNotFound            = errors.New("invoice_not_found")
	ErrForbidden           = errors.New("forbidden")
	ErrNotPayable          = errors.New("invoice_not_payable")
	ErrNoContactEmail      = errors.New("organization_has_no_contact_email")
	ErrEmailSendFailed     = errors.New("email_send_failed")
)
