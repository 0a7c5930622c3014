package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/billing/domain"
	coindomain "github.com/vendora/vendora/internal/coinpayment/domain"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
)

type AggregatorParams struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	ProfileRepo profiledomain.Repository
	MachineRepo machinedomain.Repository
	CoinRepo    coindomain.Repository
	TxnRepo     transactiondomain.Repository
}

type Aggregator struct {
	db          *gorm.DB
	log         *zap.Logger
	profileRepo profiledomain.Repository
	machineRepo machinedomain.Repository
	coinRepo    coindomain.Repository
	txnRepo     transactiondomain.Repository
}

func NewAggregator(p AggregatorParams) domain.Aggregator {
	return &Aggregator{
		db:          p.DB,
		log:         p.Log.Named("billing.aggregator"),
		profileRepo: p.ProfileRepo,
		machineRepo: p.MachineRepo,
		coinRepo:    p.CoinRepo,
		txnRepo:     p.TxnRepo,
	}
}

func (a *Aggregator) CalculateInvoiceAmounts(ctx context.Context, orgID snowflake.ID, start, end time.Time) (domain.InvoiceAmounts, error) {
	if orgID == 0 {
		return domain.InvoiceAmounts{}, domain.ErrInvalidOrganization
	}
	if !start.Before(end) {
		return domain.InvoiceAmounts{}, domain.ErrInvalidWindow
	}

	profiles, err := a.profileRepo.ListByOrganization(ctx, a.db, orgID)
	if err != nil {
		return domain.InvoiceAmounts{}, err
	}
	customerIDs := make([]snowflake.ID, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		customerIDs = append(customerIDs, p.ID)
	}
	if len(customerIDs) == 0 {
		return domain.InvoiceAmounts{}, nil
	}

	machines, err := a.machineRepo.ListByCustomers(ctx, a.db, customerIDs)
	if err != nil {
		return domain.InvoiceAmounts{}, err
	}
	machineIDs := make([]snowflake.ID, 0, len(machines))
	for _, m := range machines {
		machineIDs = append(machineIDs, m.ID)
	}
	if len(machineIDs) == 0 {
		return domain.InvoiceAmounts{}, nil
	}

	coin, err := a.coinRepo.SumWindow(ctx, a.db, machineIDs, start, end)
	if err != nil {
		return domain.InvoiceAmounts{}, err
	}
	online, err := a.txnRepo.SumPaidWindow(ctx, a.db, machineIDs, start, end)
	if err != nil {
		return domain.InvoiceAmounts{}, err
	}

	// Only dispensed coin drops are billable; online storefront volume
	// is settled at capture time and reported separately.
	return domain.InvoiceAmounts{
		AmountPaisa:  coin.AmountPaisa,
		CoinPaisa:    coin.AmountPaisa,
		OnlinePaisa:  online.AmountPaisa,
		PaymentCount: coin.Count,
		MachineCount: len(machineIDs),
	}, nil
}
