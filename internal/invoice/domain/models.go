// Package domain contains persistence models for organization invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/pkg/money"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusPending   InvoiceStatus = "pending"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// Payment methods on organization invoices.
const (
	MethodOnline       = "online"
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
	MethodUPI          = "upi"
	MethodCheque       = "cheque"
)

// Payment row states. An online payment starts as created when the
// gateway order is opened and flips to success on a verified capture.
const (
	PaymentStatusCreated = "created"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// OrganizationInvoice bills one organization for one calendar period.
// The period is half-open [PeriodStart, PeriodEnd); the unique index
// makes a second invoice for the same organization and period a
// constraint violation instead of a race.
type OrganizationInvoice struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	OrganizationID  snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_org_invoices_period,priority:1" json:"organization_id,string"`
	InvoiceNumber   string        `gorm:"type:text;not null;uniqueIndex:ux_org_invoices_number" json:"invoice_number"`
	Status          InvoiceStatus `gorm:"type:text;not null;default:'draft'" json:"status"`
	AmountPaisa     money.Paisa   `gorm:"column:amount_paisa;not null;default:0" json:"amount_paisa"`
	AmountPaidPaisa money.Paisa   `gorm:"column:amount_paid_paisa;not null;default:0" json:"amount_paid_paisa"`
	AmountDuePaisa  money.Paisa   `gorm:"column:amount_due_paisa;not null;default:0" json:"amount_due_paisa"`
	PaymentCount    int64         `gorm:"not null;default:0" json:"payment_count"`
	MachineCount    int           `gorm:"not null;default:0" json:"machine_count"`
	PeriodStart     time.Time     `gorm:"not null;uniqueIndex:ux_org_invoices_period,priority:2" json:"period_start"`
	PeriodEnd       time.Time     `gorm:"not null;uniqueIndex:ux_org_invoices_period,priority:3" json:"period_end"`
	DueAt           *time.Time    `json:"due_at,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	EmailSent       bool          `gorm:"not null;default:false" json:"email_sent"`
	EmailSentAt     *time.Time    `json:"email_sent_at,omitempty"`
	ReminderCount   int           `gorm:"not null;default:0" json:"reminder_count"`
	LastReminderAt  *time.Time    `json:"last_reminder_at,omitempty"`
	GatewayOrderID  string        `gorm:"type:text;index" json:"gateway_order_id,omitempty"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (OrganizationInvoice) TableName() string { return "organization_invoices" }

// DisplayStatus is the customer-facing status label. A zero-total
// invoice reads "No Payment Needed" instead of a lifecycle status.
func (i *OrganizationInvoice) DisplayStatus() string {
	if i.AmountPaisa == 0 {
		return "No Payment Needed"
	}
	return string(i.Status)
}

// OrganizationPayment is money received against an invoice. Deleting
// the invoice cascades to its payments in the schema.
type OrganizationPayment struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	InvoiceID        snowflake.ID  `gorm:"not null;index" json:"invoice_id,string"`
	AmountPaisa      money.Paisa   `gorm:"column:amount_paisa;not null" json:"amount_paisa"`
	Method           string        `gorm:"type:text;not null" json:"method"`
	Status           string        `gorm:"type:text;not null;default:'success'" json:"status"`
	Reference        string        `gorm:"type:text" json:"reference"`
	Note             string        `gorm:"type:text" json:"note"`
	GatewayOrderID   string        `gorm:"type:text;index" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string        `gorm:"type:text;index" json:"gateway_payment_id,omitempty"`
	RecordedBy       *snowflake.ID `gorm:"index" json:"recorded_by,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (OrganizationPayment) TableName() string { return "organization_payments" }

// InvoiceSequence is the single-row counter behind invoice numbering.
type InvoiceSequence struct {
	ID        int   `gorm:"primaryKey" json:"id"`
	NextValue int64 `gorm:"not null;default:0" json:"next_value"`
}

// TableName sets the database table name.
func (InvoiceSequence) TableName() string { return "invoice_sequences" }
