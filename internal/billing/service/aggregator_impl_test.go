package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/billing/domain"
	coindomain "github.com/vendora/vendora/internal/coinpayment/domain"
	coinrepo "github.com/vendora/vendora/internal/coinpayment/repository"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	machinerepo "github.com/vendora/vendora/internal/machine/repository"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	profilerepo "github.com/vendora/vendora/internal/profile/repository"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
	transactionrepo "github.com/vendora/vendora/internal/transaction/repository"
	"github.com/vendora/vendora/pkg/money"
)

func newAggregatorTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&profiledomain.Profile{},
		&machinedomain.VendingMachine{},
		&coindomain.CoinPayment{},
		&transactiondomain.Transaction{},
	))
	return db
}

func newTestAggregator(db *gorm.DB) domain.Aggregator {
	return NewAggregator(AggregatorParams{
		DB:          db,
		Log:         zap.NewNop(),
		ProfileRepo: profilerepo.Provide(),
		MachineRepo: machinerepo.Provide(),
		CoinRepo:    coinrepo.Provide(),
		TxnRepo:     transactionrepo.Provide(),
	})
}

func TestCalculateInvoiceAmounts_Validation(t *testing.T) {
	db := newAggregatorTestDB(t)
	agg := newTestAggregator(db)
	ctx := context.Background()

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	_, err := agg.CalculateInvoiceAmounts(ctx, 0, start, end)
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)

	_, err = agg.CalculateInvoiceAmounts(ctx, 1, end, start)
	require.ErrorIs(t, err, domain.ErrInvalidWindow)

	_, err = agg.CalculateInvoiceAmounts(ctx, 1, start, start)
	require.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestCalculateInvoiceAmounts_EmptyOrganization(t *testing.T) {
	db := newAggregatorTestDB(t)
	agg := newTestAggregator(db)
	node, _ := snowflake.NewNode(1)
	ctx := context.Background()

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	// No profiles at all.
	orgID := node.Generate()
	amounts, err := agg.CalculateInvoiceAmounts(ctx, orgID, start, end)
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceAmounts{}, amounts)

	// Profiles but no machines.
	customer := profiledomain.Profile{
		ID:             node.Generate(),
		Email:          "worker@acme.example",
		Name:           "Worker",
		PasswordHash:   "x",
		Role:           profiledomain.RoleCustomer,
		AccountType:    profiledomain.AccountTypeCustomer,
		OrganizationID: &orgID,
	}
	require.NoError(t, db.Create(&customer).Error)

	amounts, err = agg.CalculateInvoiceAmounts(ctx, orgID, start, end)
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceAmounts{}, amounts)
}

type countingCoinRepo struct {
	coindomain.Repository
	sumCalls int
}

func (r *countingCoinRepo) SumWindow(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, start, end time.Time) (coindomain.WindowTotal, error) {
	r.sumCalls++
	return r.Repository.SumWindow(ctx, db, machineIDs, start, end)
}

type countingTxnRepo struct {
	transactiondomain.Repository
	sumCalls int
}

func (r *countingTxnRepo) SumPaidWindow(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, start, end time.Time) (transactiondomain.WindowTotal, error) {
	r.sumCalls++
	return r.Repository.SumPaidWindow(ctx, db, machineIDs, start, end)
}

func TestCalculateInvoiceAmounts_EmptyOrganizationSkipsPaymentQueries(t *testing.T) {
	db := newAggregatorTestDB(t)
	coins := &countingCoinRepo{Repository: coinrepo.Provide()}
	txns := &countingTxnRepo{Repository: transactionrepo.Provide()}
	agg := NewAggregator(AggregatorParams{
		DB:          db,
		Log:         zap.NewNop(),
		ProfileRepo: profilerepo.Provide(),
		MachineRepo: machinerepo.Provide(),
		CoinRepo:    coins,
		TxnRepo:     txns,
	})
	node, _ := snowflake.NewNode(1)
	ctx := context.Background()

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	// No profiles: short-circuits before any payment aggregation.
	orgID := node.Generate()
	amounts, err := agg.CalculateInvoiceAmounts(ctx, orgID, start, end)
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceAmounts{}, amounts)
	require.Zero(t, coins.sumCalls)
	require.Zero(t, txns.sumCalls)

	// Profiles but no machines: still no payment queries.
	customer := profiledomain.Profile{
		ID:             node.Generate(),
		Email:          "worker@acme.example",
		Name:           "Worker",
		PasswordHash:   "x",
		Role:           profiledomain.RoleCustomer,
		AccountType:    profiledomain.AccountTypeCustomer,
		OrganizationID: &orgID,
	}
	require.NoError(t, db.Create(&customer).Error)

	_, err = agg.CalculateInvoiceAmounts(ctx, orgID, start, end)
	require.NoError(t, err)
	require.Zero(t, coins.sumCalls)
	require.Zero(t, txns.sumCalls)
}

func TestCalculateInvoiceAmounts_CoinOnlyBillable(t *testing.T) {
	db := newAggregatorTestDB(t)
	agg := newTestAggregator(db)
	node, _ := snowflake.NewNode(1)
	ctx := context.Background()

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	orgID := node.Generate()
	customerID := node.Generate()
	customer := profiledomain.Profile{
		ID:             customerID,
		Email:          "ops@acme.example",
		Name:           "Ops",
		PasswordHash:   "x",
		Role:           profiledomain.RoleCustomer,
		AccountType:    profiledomain.AccountTypeCustomer,
		OrganizationID: &orgID,
	}
	require.NoError(t, db.Create(&customer).Error)

	machine := machinedomain.VendingMachine{
		ID:                node.Generate(),
		MachineID:         "VM-001",
		Status:            machinedomain.StatusOnline,
		CustomerProfileID: &customerID,
	}
	require.NoError(t, db.Create(&machine).Error)

	mkCoin := func(amount int64, dispensed bool, paidAt time.Time) coindomain.CoinPayment {
		return coindomain.CoinPayment{
			ID:          node.Generate(),
			MachineID:   machine.ID,
			AmountPaisa: money.Paisa(amount),
			Dispensed:   dispensed,
			PaidAt:      paidAt,
		}
	}

	drops := []coindomain.CoinPayment{
		mkCoin(2500, true, start),                     // window start is inclusive
		mkCoin(2500, true, start.AddDate(0, 0, 10)),
		mkCoin(5000, true, end.Add(-time.Second)),
		mkCoin(9999, false, start.AddDate(0, 0, 5)),   // not dispensed, not billable
		mkCoin(7777, true, end),                       // window end is exclusive
		mkCoin(8888, true, start.Add(-time.Second)),   // before the window
	}
	for i := range drops {
		require.NoError(t, db.Create(&drops[i]).Error)
	}

	paidAt := start.AddDate(0, 0, 3)
	txn := transactiondomain.Transaction{
		ID:             node.Generate(),
		MachineID:      machine.ID,
		TotalPaisa:     money.Paisa(12000),
		Status:         transactiondomain.StatusPaid,
		GatewayOrderID: "order_test_1",
		PaidAt:         &paidAt,
	}
	require.NoError(t, db.Create(&txn).Error)

	amounts, err := agg.CalculateInvoiceAmounts(ctx, orgID, start, end)
	require.NoError(t, err)

	require.EqualValues(t, 10000, amounts.AmountPaisa)
	require.EqualValues(t, 10000, amounts.CoinPaisa)
	require.EqualValues(t, 12000, amounts.OnlinePaisa)
	require.EqualValues(t, 3, amounts.PaymentCount)
	require.Equal(t, 1, amounts.MachineCount)
}

func TestMonthWindows(t *testing.T) {
	ref := time.Date(2025, 7, 15, 13, 45, 0, 0, time.UTC)

	start, end := domain.MonthWindow(ref)
	require.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), end)

	prevStart, prevEnd := domain.PreviousMonthWindow(ref)
	require.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), prevStart)
	require.Equal(t, start, prevEnd)

	// January rolls back across the year boundary.
	jan := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	prevStart, prevEnd = domain.PreviousMonthWindow(jan)
	require.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), prevStart)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), prevEnd)

	// A month-end reference stays in the previous month; naive day
	// arithmetic would normalize May 31 minus one month to May 1.
	eom := time.Date(2025, 5, 31, 18, 30, 0, 0, time.UTC)
	prevStart, prevEnd = domain.PreviousMonthWindow(eom)
	require.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), prevStart)
	require.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), prevEnd)
}
