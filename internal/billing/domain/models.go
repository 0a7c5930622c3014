// Package domain contains the billing aggregation types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/pkg/money"
)

// InvoiceAmounts is what an organization owes for a billing window,
// split by collection channel.
type InvoiceAmounts struct {
	AmountPaisa  money.Paisa `json:"amount_paisa"`
	CoinPaisa    money.Paisa `json:"coin_paisa"`
	OnlinePaisa  money.Paisa `json:"online_paisa"`
	PaymentCount int64       `json:"payment_count"`
	MachineCount int         `json:"machine_count"`
}

// OrganizationSummary is one dashboard row. A failed rollup keeps its
// row with Error set so one organization cannot blank the dashboard.
type OrganizationSummary struct {
	OrganizationID snowflake.ID `json:"organization_id,string"`
	Name           string       `json:"name"`
	ThisMonthPaisa money.Paisa  `json:"this_month_paisa"`
	LastMonthPaisa money.Paisa  `json:"last_month_paisa"`
	ThisMonthCount int64        `json:"this_month_count"`
	LastMonthCount int64        `json:"last_month_count"`
	MachineCount   int          `json:"machine_count"`
	Error          string       `json:"error,omitempty"`
}

// Overview is the admin dashboard payload.
type Overview struct {
	GeneratedAt    time.Time             `json:"generated_at"`
	ThisMonthStart time.Time             `json:"this_month_start"`
	LastMonthStart time.Time             `json:"last_month_start"`
	TotalThisMonth money.Paisa           `json:"total_this_month_paisa"`
	TotalLastMonth money.Paisa           `json:"total_last_month_paisa"`
	Organizations  []OrganizationSummary `json:"organizations"`
}

// MonthWindow returns the half-open [start, end) window of the month
// containing t, in UTC.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonthWindow returns the window of the month before the one
// containing t.
func PreviousMonthWindow(t time.Time) (time.Time, time.Time) {
	start, _ := MonthWindow(t)
	return start.AddDate(0, -1, 0), start
}
