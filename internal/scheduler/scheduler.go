// Package scheduler drives the recurring billing jobs: monthly invoice
// generation, the overdue sweep, and reminder emails. All scheduling maths
// goes through clock.Clock so tests can pin the calendar.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/vendora/vendora/internal/billing/domain"
	"github.com/vendora/vendora/internal/clock"
	invoicedomain "github.com/vendora/vendora/internal/invoice/domain"
	"github.com/vendora/vendora/internal/observability/metrics"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	InvoiceSvc invoicedomain.Service
	Metrics    *metrics.Metrics `optional:"true"`
	Config     Config           `optional:"true"`
}

type Scheduler struct {
	log        *zap.Logger
	cfg        Config
	clock      clock.Clock
	invoiceSvc invoicedomain.Service
	metrics    *metrics.Metrics

	// First day of the last month a generation run was attempted for.
	// Bulk generation is idempotent, this only avoids hammering it every
	// tick on the first of the month.
	lastGeneratedPeriod time.Time
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.InvoiceSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		clock:      p.Clock,
		invoiceSvc: p.InvoiceSvc,
		metrics:    p.Metrics,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	err := fn(ctx)
	s.metrics.ObserveJob(parent, name, time.Since(start), err)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out", zap.Duration("timeout", s.cfg.JobTimeout), zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes every enabled job for the current tick.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{"generate_invoices", s.GenerateInvoicesJob},
		{"mark_overdue", s.MarkOverdueJob},
		{"send_reminders", s.SendRemindersJob},
	}

	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, job.Name, job.Run))
	}

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// GenerateInvoicesJob invoices the previous calendar month. It only fires on
// the first day of a month, and once per period within this process; the
// service's duplicate-period check keeps reruns across restarts harmless.
func (s *Scheduler) GenerateInvoicesJob(ctx context.Context) error {
	now := s.clock.Now()
	if now.Day() != 1 {
		return nil
	}

	period, _ := billingdomain.PreviousMonthWindow(now)
	if s.lastGeneratedPeriod.Equal(period) {
		return nil
	}

	results, err := s.invoiceSvc.BulkGenerateMonthly(ctx, period)
	if err != nil {
		return err
	}
	s.lastGeneratedPeriod = period

	var created, skipped, failed int
	for _, row := range results {
		switch {
		case row.Error != "":
			failed++
			s.log.Warn("invoice generation failed for organization",
				zap.Int64("organization_id", int64(row.OrganizationID)),
				zap.String("error", row.Error),
			)
		case row.Skipped:
			skipped++
		default:
			created++
		}
	}

	s.log.Info("monthly invoice run complete",
		zap.Time("period_start", period),
		zap.Int("created", created),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	return nil
}

func (s *Scheduler) MarkOverdueJob(ctx context.Context) error {
	updated, err := s.invoiceSvc.MarkOverdue(ctx)
	if err != nil {
		return err
	}
	if updated > 0 {
		s.log.Info("marked invoices overdue", zap.Int64("count", updated))
	}
	return nil
}

func (s *Scheduler) SendRemindersJob(ctx context.Context) error {
	sent, err := s.invoiceSvc.SendDueReminders(ctx)
	if err != nil {
		return err
	}
	if sent > 0 {
		s.log.Info("sent due reminders", zap.Int("count", sent))
	}
	return nil
}
