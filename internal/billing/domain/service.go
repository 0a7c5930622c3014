package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Aggregator resolves what an organization owes for a window by walking
// its customer profiles down to their machines' payments.
type Aggregator interface {
	// CalculateInvoiceAmounts totals coin and online payments for the
	// organization's machines with paid_at in [start, end). An
	// organization with no customers or no machines yields a zero
	// result without querying payments.
	CalculateInvoiceAmounts(ctx context.Context, orgID snowflake.ID, start, end time.Time) (InvoiceAmounts, error)
}

// DashboardService renders admin revenue rollups.
type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidWindow       = errors.New("invalid_window")
)
