package service

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/billing/domain"
	"github.com/vendora/vendora/internal/clock"
	orgdomain "github.com/vendora/vendora/internal/organization/domain"
)

const dashboardConcurrency = 8

type DashboardParams struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	OrgRepo    orgdomain.Repository
	Aggregator domain.Aggregator
}

type Dashboard struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	orgRepo    orgdomain.Repository
	aggregator domain.Aggregator
}

func NewDashboard(p DashboardParams) domain.DashboardService {
	return &Dashboard{
		db:         p.DB,
		log:        p.Log.Named("billing.dashboard"),
		clock:      p.Clock,
		orgRepo:    p.OrgRepo,
		aggregator: p.Aggregator,
	}
}

func (d *Dashboard) Overview(ctx context.Context) (*domain.Overview, error) {
	now := d.clock.Now()
	thisStart, thisEnd := domain.MonthWindow(now)
	lastStart, lastEnd := domain.PreviousMonthWindow(now)

	orgs, err := d.orgRepo.ListAll(ctx, d.db)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.OrganizationSummary, len(orgs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for i, org := range orgs {
		g.Go(func() error {
			row := domain.OrganizationSummary{
				OrganizationID: org.ID,
				Name:           org.Name,
			}
			thisMonth, err := d.aggregator.CalculateInvoiceAmounts(gctx, org.ID, thisStart, thisEnd)
			if err == nil {
				var lastMonth domain.InvoiceAmounts
				lastMonth, err = d.aggregator.CalculateInvoiceAmounts(gctx, org.ID, lastStart, lastEnd)
				if err == nil {
					row.ThisMonthPaisa = thisMonth.AmountPaisa
					row.LastMonthPaisa = lastMonth.AmountPaisa
					row.ThisMonthCount = thisMonth.PaymentCount
					row.LastMonthCount = lastMonth.PaymentCount
					row.MachineCount = thisMonth.MachineCount
				}
			}
			if err != nil {
				// One broken organization must not blank the dashboard.
				d.log.Warn("dashboard rollup failed",
					zap.String("organization_id", org.ID.String()),
					zap.Error(err),
				)
				row.Error = err.Error()
			}
			mu.Lock()
			summaries[i] = row
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overview := &domain.Overview{
		GeneratedAt:    now,
		ThisMonthStart: thisStart,
		LastMonthStart: lastStart,
		Organizations:  summaries,
	}
	for _, s := range summaries {
		overview.TotalThisMonth += s.ThisMonthPaisa
		overview.TotalLastMonth += s.LastMonthPaisa
	}
	return overview, nil
}
