package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/authctx"
	billingdomain "github.com/vendora/vendora/internal/billing/domain"
	"github.com/vendora/vendora/internal/clock"
	"github.com/vendora/vendora/internal/config"
	"github.com/vendora/vendora/internal/invoice/domain"
	"github.com/vendora/vendora/internal/invoice/numbering"
	"github.com/vendora/vendora/internal/observability/metrics"
	orgdomain "github.com/vendora/vendora/internal/organization/domain"
	paymentdomain "github.com/vendora/vendora/internal/payment/domain"
	"github.com/vendora/vendora/internal/providers/email"
	"github.com/vendora/vendora/internal/providers/pdf"
	pkgdb "github.com/vendora/vendora/pkg/db"
	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Policy     *config.BillingPolicyHolder
	Repo       domain.Repository
	OrgRepo    orgdomain.Repository
	Aggregator billingdomain.Aggregator
	Gateway    paymentdomain.Gateway
	Email      email.Provider
	Composer   *email.Composer
	PDF        pdf.Provider
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	policy     *config.BillingPolicyHolder
	repo       domain.Repository
	orgRepo    orgdomain.Repository
	aggregator billingdomain.Aggregator
	gateway    paymentdomain.Gateway
	email      email.Provider
	composer   *email.Composer
	pdf        pdf.Provider
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		policy:     p.Policy,
		repo:       p.Repo,
		orgRepo:    p.OrgRepo,
		aggregator: p.Aggregator,
		gateway:    p.Gateway,
		email:      p.Email,
		composer:   p.Composer,
		pdf:        p.PDF,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.OrganizationInvoice, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	start := req.PeriodStart.UTC()
	end := req.PeriodEnd.UTC()
	if !start.Before(end) {
		return nil, domain.ErrInvalidPeriod
	}

	org, err := s.orgRepo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrInvalidOrganization
	}

	amounts, err := s.aggregator.CalculateInvoiceAmounts(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}

	status := domain.StatusDraft
	if amounts.AmountPaisa > 0 {
		status = domain.StatusPending
	}

	now := s.clock.Now()
	dueAt := now.AddDate(0, 0, s.policy.Get().DueDays)

	invoice := domain.OrganizationInvoice{
		ID:              s.genID.Generate(),
		OrganizationID:  orgID,
		Status:          status,
		AmountPaisa:     amounts.AmountPaisa,
		AmountPaidPaisa: 0,
		AmountDuePaisa:  amounts.AmountPaisa,
		PaymentCount:    amounts.PaymentCount,
		MachineCount:    amounts.MachineCount,
		PeriodStart:     start,
		PeriodEnd:       end,
		DueAt:           &dueAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := numbering.Next(ctx, tx)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
		return s.repo.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicatePeriod
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordInvoiceGenerated(ctx, string(invoice.Status))
	}
	s.log.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("organization_id", orgID.String()),
		zap.Int64("amount_paisa", int64(invoice.AmountPaisa)),
	)
	return &invoice, nil
}

func (s *Service) BulkGenerateMonthly(ctx context.Context, ref time.Time) ([]domain.GenerationResult, error) {
	start, end := billingdomain.MonthWindow(ref)

	orgs, err := s.orgRepo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	results := make([]domain.GenerationResult, 0, len(orgs))
	for _, org := range orgs {
		result := domain.GenerationResult{OrganizationID: org.ID}
		invoice, err := s.Create(ctx, domain.CreateRequest{
			OrganizationID: org.ID.String(),
			PeriodStart:    start,
			PeriodEnd:      end,
		})
		switch {
		case err == domain.ErrDuplicatePeriod:
			result.Skipped = true
		case err != nil:
			// One broken organization must not abort the whole run.
			s.log.Warn("bulk invoice generation failed for organization",
				zap.String("organization_id", org.ID.String()),
				zap.Error(err),
			)
			result.Error = err.Error()
		default:
			result.InvoiceID = invoice.ID
			result.InvoiceNumber = invoice.InvoiceNumber
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) RecordManualPayment(ctx context.Context, actor authctx.Actor, req domain.RecordPaymentRequest) (*domain.OrganizationInvoice, error) {
	id, err := parseID(req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if req.AmountPaisa <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	method := strings.TrimSpace(req.Method)
	switch method {
	case domain.MethodBankTransfer, domain.MethodCash, domain.MethodUPI, domain.MethodCheque:
	default:
		return nil, domain.ErrInvalidMethod
	}

	var updated *domain.OrganizationInvoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		switch invoice.Status {
		case domain.StatusPending, domain.StatusOverdue, domain.StatusPaid:
		default:
			return domain.ErrNotPayable
		}

		now := s.clock.Now()
		payment := domain.OrganizationPayment{
			ID:          s.genID.Generate(),
			InvoiceID:   invoice.ID,
			AmountPaisa: money.Paisa(req.AmountPaisa),
			Method:      method,
			Status:      domain.PaymentStatusSuccess,
			Reference:   strings.TrimSpace(req.Reference),
			Note:        strings.TrimSpace(req.Note),
			PaidAt:      &now,
			CreatedAt:   now,
		}
		if actor.ProfileID != 0 {
			recordedBy := actor.ProfileID
			payment.RecordedBy = &recordedBy
		}
		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}

		if err := s.recomputeBalances(ctx, tx, invoice, now); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentRecorded(ctx, method)
	}
	s.sendPaymentConfirmation(ctx, updated, money.Paisa(req.AmountPaisa))
	return updated, nil
}

func (s *Service) CreateOnlineOrder(ctx context.Context, actor authctx.Actor, rawID string) (*domain.OnlineOrder, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if err := scopeToActor(actor, invoice); err != nil {
		return nil, err
	}
	switch invoice.Status {
	case domain.StatusPending, domain.StatusOverdue:
	default:
		return nil, domain.ErrNotPayable
	}
	if invoice.AmountDuePaisa <= 0 {
		return nil, domain.ErrNotPayable
	}

	order, err := s.gateway.CreateOrder(ctx, paymentdomain.CreateOrderRequest{
		AmountPaisa: invoice.AmountDuePaisa,
		Currency:    "INR",
		Receipt:     invoice.InvoiceNumber,
		Notes: map[string]string{
			"invoice_id": invoice.ID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	payment := domain.OrganizationPayment{
		ID:             s.genID.Generate(),
		InvoiceID:      invoice.ID,
		AmountPaisa:    invoice.AmountDuePaisa,
		Method:         domain.MethodOnline,
		Status:         domain.PaymentStatusCreated,
		GatewayOrderID: order.ID,
		CreatedAt:      now,
	}
	if actor.ProfileID != 0 {
		recordedBy := actor.ProfileID
		payment.RecordedBy = &recordedBy
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}
		invoice.GatewayOrderID = order.ID
		invoice.UpdatedAt = now
		return s.repo.Update(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return &domain.OnlineOrder{
		InvoiceID:      invoice.ID,
		GatewayOrderID: order.ID,
		GatewayKeyID:   s.gateway.KeyID(),
		AmountPaisa:    payment.AmountPaisa,
		Currency:       order.Currency,
	}, nil
}

func (s *Service) VerifyOnlinePayment(ctx context.Context, req domain.VerifyPaymentRequest) (*domain.OrganizationInvoice, error) {
	orderID := strings.TrimSpace(req.GatewayOrderID)
	paymentID := strings.TrimSpace(req.GatewayPaymentID)

	if err := s.gateway.VerifySignature(orderID, paymentID, req.Signature); err != nil {
		return nil, err
	}

	var updated *domain.OrganizationInvoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.repo.FindPaymentByGatewayOrderID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}

		invoice, err := s.repo.FindByID(ctx, tx, payment.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		// Gateway retries replay the same capture; never credit twice.
		if payment.Status == domain.PaymentStatusSuccess {
			if payment.GatewayPaymentID == paymentID {
				updated = invoice
				return nil
			}
			return domain.ErrNotPayable
		}

		now := s.clock.Now()
		payment.Status = domain.PaymentStatusSuccess
		payment.GatewayPaymentID = paymentID
		payment.PaidAt = &now
		if err := s.repo.UpdatePayment(ctx, tx, payment); err != nil {
			return err
		}

		if err := s.recomputeBalances(ctx, tx, invoice, now); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentRecorded(ctx, domain.MethodOnline)
	}
	return updated, nil
}

// recomputeBalances rereads settled payments and rewrites the invoice's
// paid/due/status columns inside the caller's transaction, so the
// payment row and the invoice totals can never drift apart.
func (s *Service) recomputeBalances(ctx context.Context, tx *gorm.DB, invoice *domain.OrganizationInvoice, now time.Time) error {
	paid, err := s.repo.SumSettledPayments(ctx, tx, invoice.ID)
	if err != nil {
		return err
	}

	invoice.AmountPaidPaisa = paid
	due := invoice.AmountPaisa - paid
	if due < 0 {
		due = 0
	}
	invoice.AmountDuePaisa = due
	if invoice.AmountPaisa > 0 && due == 0 {
		invoice.Status = domain.StatusPaid
		if invoice.PaidAt == nil {
			paidAt := now
			invoice.PaidAt = &paidAt
		}
	}
	invoice.UpdatedAt = now
	return s.repo.Update(ctx, tx, invoice)
}

func (s *Service) SendInvoiceEmail(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}

	org, err := s.orgRepo.FindByID(ctx, s.db, invoice.OrganizationID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrInvalidOrganization
	}
	if strings.TrimSpace(org.ContactEmail) == "" {
		return domain.ErrNoContactEmail
	}

	now := s.clock.Now()
	if err := s.deliverInvoiceEmail(ctx, invoice, org, now); err != nil {
		return err
	}

	invoice.EmailSent = true
	invoice.EmailSentAt = &now
	invoice.ReminderCount++
	invoice.LastReminderAt = &now
	invoice.UpdatedAt = now
	return s.repo.Update(ctx, s.db, invoice)
}

func (s *Service) deliverInvoiceEmail(ctx context.Context, invoice *domain.OrganizationInvoice, org *orgdomain.Organization, now time.Time) error {
	data := s.composeData(invoice, org, now)

	kind := email.KindInvoice
	if invoice.AmountPaisa == 0 {
		kind = email.KindStatement
	} else if data.DaysOverdue > 0 {
		kind = email.KindReminder
	}

	subject, html, err := s.composer.Render(kind, data)
	if err != nil {
		return err
	}

	msg := email.Message{
		To:      []string{org.ContactEmail},
		Subject: subject,
		HTML:    html,
	}

	// Statements carry no payable amount, so skip the PDF.
	if kind != email.KindStatement {
		if reader, err := s.renderPDF(ctx, invoice, org); err != nil {
			s.log.Warn("invoice pdf render failed",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err),
			)
		} else if data, err := io.ReadAll(reader); err == nil {
			msg.Attachments = append(msg.Attachments, email.Attachment{
				Filename:    fmt.Sprintf("%s.pdf", invoice.InvoiceNumber),
				ContentType: "application/pdf",
				Data:        data,
			})
		}
	}

	result := s.email.Send(ctx, msg)
	if s.metrics != nil {
		s.metrics.RecordEmailSent(ctx, string(kind), result.Success)
	}
	if !result.Success {
		s.log.Warn("invoice email send failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(result.Err),
		)
		return domain.ErrEmailSendFailed
	}
	s.log.Info("invoice email sent",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("kind", string(kind)),
		zap.String("message_id", result.MessageID),
	)
	return nil
}

func (s *Service) composeData(invoice *domain.OrganizationInvoice, org *orgdomain.Organization, now time.Time) email.ComposeData {
	data := email.ComposeData{
		OrgName:       org.Name,
		InvoiceNumber: invoice.InvoiceNumber,
		PeriodLabel:   periodLabel(invoice.PeriodStart, invoice.PeriodEnd),
		AmountDue:     money.Format(int64(invoice.AmountDuePaisa)),
		PaymentCount:  invoice.PaymentCount,
	}
	if invoice.DueAt != nil {
		data.DueDate = invoice.DueAt.Format("02 Jan 2006")
		if now.After(*invoice.DueAt) {
			data.DaysOverdue = int(now.Sub(*invoice.DueAt).Hours() / 24)
		}
	}
	return data
}

func (s *Service) renderPDF(ctx context.Context, invoice *domain.OrganizationInvoice, org *orgdomain.Organization) (io.Reader, error) {
	data := pdf.InvoiceData{
		OrgName:       org.Name,
		OrgAddress:    org.Address,
		OrgEmail:      org.ContactEmail,
		OrgTaxID:      org.TaxID,
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.CreatedAt.Format("02 Jan 2006"),
		PeriodLabel:   periodLabel(invoice.PeriodStart, invoice.PeriodEnd),
		MachineCount:  invoice.MachineCount,
		PaymentCount:  invoice.PaymentCount,
		Total:         money.Format(int64(invoice.AmountPaisa)),
		AmountPaid:    money.Format(int64(invoice.AmountPaidPaisa)),
		AmountDue:     money.Format(int64(invoice.AmountDuePaisa)),
		Status:        string(invoice.Status),
	}
	if invoice.DueAt != nil {
		data.DueDate = invoice.DueAt.Format("02 Jan 2006")
	}
	return s.pdf.GenerateInvoice(ctx, data)
}

func (s *Service) sendPaymentConfirmation(ctx context.Context, invoice *domain.OrganizationInvoice, amount money.Paisa) {
	org, err := s.orgRepo.FindByID(ctx, s.db, invoice.OrganizationID)
	if err != nil || org == nil || strings.TrimSpace(org.ContactEmail) == "" {
		return
	}

	data := s.composeData(invoice, org, s.clock.Now())
	data.PaymentAmount = money.Format(int64(amount))
	data.Settled = invoice.Status == domain.StatusPaid

	subject, html, err := s.composer.Render(email.KindPaymentConfirmation, data)
	if err != nil {
		return
	}
	result := s.email.Send(ctx, email.Message{
		To:      []string{org.ContactEmail},
		Subject: subject,
		HTML:    html,
	})
	if s.metrics != nil {
		s.metrics.RecordEmailSent(ctx, string(email.KindPaymentConfirmation), result.Success)
	}
	if !result.Success {
		s.log.Warn("payment confirmation send failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(result.Err),
		)
	}
}

// SendDueReminders emails every overdue invoice that is due for another
// nudge per the billing policy cadence. Returns how many were sent.
func (s *Service) SendDueReminders(ctx context.Context) (int, error) {
	policy := s.policy.Get()
	now := s.clock.Now()

	invoices, err := s.repo.ListByStatus(ctx, s.db, domain.StatusOverdue)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, invoice := range invoices {
		if invoice.ReminderCount >= policy.MaxReminders {
			continue
		}
		if invoice.LastReminderAt != nil {
			next := invoice.LastReminderAt.AddDate(0, 0, policy.ReminderIntervalDays)
			if now.Before(next) {
				continue
			}
		}
		if err := s.SendInvoiceEmail(ctx, invoice.ID.String()); err != nil {
			s.log.Warn("reminder send failed",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	res := s.db.WithContext(ctx).
		Model(&domain.OrganizationInvoice{}).
		Where("status = ? AND due_at IS NOT NULL AND due_at < ? AND amount_due_paisa > 0", domain.StatusPending, now).
		Updates(map[string]any{
			"status":     domain.StatusOverdue,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("invoices marked overdue", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

func (s *Service) Get(ctx context.Context, actor authctx.Actor, rawID string) (*domain.OrganizationInvoice, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if err := scopeToActor(actor, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, actor authctx.Actor, req domain.ListRequest) ([]*domain.OrganizationInvoice, *pagination.PageInfo, error) {
	filter := domain.ListFilter{}

	if raw := strings.TrimSpace(req.OrganizationID); raw != "" {
		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			return nil, nil, domain.ErrInvalidOrganization
		}
		filter.OrganizationID = &orgID
	}
	for _, raw := range req.Statuses {
		status := domain.InvoiceStatus(strings.TrimSpace(raw))
		switch status {
		case domain.StatusDraft, domain.StatusPending, domain.StatusPaid, domain.StatusOverdue, domain.StatusCancelled:
			filter.Statuses = append(filter.Statuses, status)
		case "":
		default:
			return nil, nil, domain.ErrInvalidStatus
		}
	}

	if !actor.IsAdmin() {
		if actor.OrganizationID == 0 {
			return nil, nil, domain.ErrForbidden
		}
		orgID := actor.OrganizationID
		filter.OrganizationID = &orgID
		filter.Statuses = customerVisibleStatuses(filter.Statuses)
	}

	return s.repo.List(ctx, s.db, filter, req.Page)
}

func (s *Service) ListPayments(ctx context.Context, actor authctx.Actor, rawID string) ([]*domain.OrganizationPayment, error) {
	invoice, err := s.Get(ctx, actor, rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, s.db, invoice.ID)
}

func (s *Service) Cancel(ctx context.Context, rawID string) (*domain.OrganizationInvoice, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	switch invoice.Status {
	case domain.StatusDraft, domain.StatusPending, domain.StatusOverdue:
	default:
		return nil, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	invoice.Status = domain.StatusCancelled
	invoice.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}
	// Payments cascade via the schema's foreign key.
	return s.repo.Delete(ctx, s.db, id)
}

// scopeToActor enforces row-level access: non-admins only see their own
// organization's invoices, and only in customer-visible states.
func scopeToActor(actor authctx.Actor, invoice *domain.OrganizationInvoice) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.OrganizationID != invoice.OrganizationID {
		return domain.ErrForbidden
	}
	switch invoice.Status {
	case domain.StatusPending, domain.StatusPaid:
		return nil
	default:
		return domain.ErrForbidden
	}
}

// customerVisibleStatuses intersects the requested statuses with what
// customers may see. Drafts, cancellations and overdue chasing stay an
// internal concern.
func customerVisibleStatuses(requested []domain.InvoiceStatus) []domain.InvoiceStatus {
	visible := []domain.InvoiceStatus{domain.StatusPending, domain.StatusPaid}
	if len(requested) == 0 {
		return visible
	}
	out := make([]domain.InvoiceStatus, 0, len(requested))
	for _, status := range requested {
		for _, v := range visible {
			if status == v {
				out = append(out, status)
				break
			}
		}
	}
	if len(out) == 0 {
		return visible
	}
	return out
}

func periodLabel(start, end time.Time) string {
	last := end.Add(-time.Second)
	return fmt.Sprintf("%s to %s", start.Format("02 Jan 2006"), last.Format("02 Jan 2006"))
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
