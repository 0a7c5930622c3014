package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/authctx"
	billingservice "github.com/vendora/vendora/internal/billing/service"
	"github.com/vendora/vendora/internal/clock"
	coindomain "github.com/vendora/vendora/internal/coinpayment/domain"
	coinrepo "github.com/vendora/vendora/internal/coinpayment/repository"
	"github.com/vendora/vendora/internal/config"
	"github.com/vendora/vendora/internal/invoice/domain"
	invoicerepo "github.com/vendora/vendora/internal/invoice/repository"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	machinerepo "github.com/vendora/vendora/internal/machine/repository"
	obsmetrics "github.com/vendora/vendora/internal/observability/metrics"
	orgdomain "github.com/vendora/vendora/internal/organization/domain"
	orgrepo "github.com/vendora/vendora/internal/organization/repository"
	paymentdomain "github.com/vendora/vendora/internal/payment/domain"
	"github.com/vendora/vendora/internal/providers/email"
	"github.com/vendora/vendora/internal/providers/pdf"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	profilerepo "github.com/vendora/vendora/internal/profile/repository"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
	transactionrepo "github.com/vendora/vendora/internal/transaction/repository"
	"github.com/vendora/vendora/pkg/money"
)

type fakeGateway struct {
	orders    int
	signature string
	orderErr  error
}

func (g *fakeGateway) Provider() string { return "fake" }
func (g *fakeGateway) KeyID() string    { return "rzp_test_key" }

func (g *fakeGateway) CreateOrder(ctx context.Context, req paymentdomain.CreateOrderRequest) (*paymentdomain.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orders++
	return &paymentdomain.Order{
		ID:          fmt.Sprintf("order_fake_%d", g.orders),
		AmountPaisa: req.AmountPaisa,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Status:      "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) error {
	if signature != g.signature {
		return paymentdomain.ErrInvalidSignature
	}
	return nil
}

type fakePDF struct{}

func (fakePDF) GenerateInvoice(ctx context.Context, data pdf.InvoiceData) (io.Reader, error) {
	return bytes.NewReader([]byte("%PDF-1.4 fake")), nil
}

type recordingEmail struct {
	messages []email.Message
	fail     bool
}

func (p *recordingEmail) Send(ctx context.Context, msg email.Message) email.SendResult {
	if p.fail {
		return email.SendResult{Success: false, Err: fmt.Errorf("smtp down")}
	}
	p.messages = append(p.messages, msg)
	return email.SendResult{Success: true, MessageID: fmt.Sprintf("msg-%d", len(p.messages))}
}

type invoiceFixture struct {
	db      *gorm.DB
	svc     domain.Service
	clock   *clock.FakeClock
	node    *snowflake.Node
	gateway *fakeGateway
	email   *recordingEmail
	policy  *config.BillingPolicyHolder
	metrics *sdkmetric.ManualReader
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&profiledomain.Profile{},
		&orgdomain.Organization{},
		&machinedomain.VendingMachine{},
		&coindomain.CoinPayment{},
		&transactiondomain.Transaction{},
		&domain.OrganizationInvoice{},
		&domain.OrganizationPayment{},
		&domain.InvoiceSequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))

	policy := &config.BillingPolicyHolder{}
	policy.Store(config.DefaultBillingPolicy())

	composer, err := email.NewComposer()
	require.NoError(t, err)

	gateway := &fakeGateway{signature: "good-signature"}
	mail := &recordingEmail{}

	reader := sdkmetric.NewManualReader()
	meters, err := obsmetrics.New(obsmetrics.Config{ServiceName: "vendora_test"},
		sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	aggregator := billingservice.NewAggregator(billingservice.AggregatorParams{
		DB:          db,
		Log:         zap.NewNop(),
		ProfileRepo: profilerepo.Provide(),
		MachineRepo: machinerepo.Provide(),
		CoinRepo:    coinrepo.Provide(),
		TxnRepo:     transactionrepo.Provide(),
	})

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fc,
		Policy:     policy,
		Repo:       invoicerepo.Provide(),
		OrgRepo:    orgrepo.Provide(),
		Aggregator: aggregator,
		Gateway:    gateway,
		Email:      mail,
		Composer:   composer,
		PDF:        fakePDF{},
		Metrics:    meters,
	})

	return &invoiceFixture{
		db:      db,
		svc:     svc,
		clock:   fc,
		node:    node,
		gateway: gateway,
		email:   mail,
		policy:  policy,
		metrics: reader,
	}
}

// counterSum totals a counter's data points across all attribute sets.
func (f *invoiceFixture) counterSum(t *testing.T, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.metrics.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

// seedOrg creates an organization with one customer, one machine, and
// the given dispensed coin volume inside July 2025.
func (f *invoiceFixture) seedOrg(t *testing.T, name string, contactEmail string, coinPaisa []int64) *orgdomain.Organization {
	t.Helper()

	org := orgdomain.Organization{
		ID:           f.node.Generate(),
		Name:         name,
		ContactEmail: contactEmail,
		Status:       orgdomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&org).Error)

	customerID := f.node.Generate()
	customer := profiledomain.Profile{
		ID:             customerID,
		Email:          fmt.Sprintf("customer-%s@test.example", customerID),
		Name:           "Customer",
		PasswordHash:   "x",
		Role:           profiledomain.RoleCustomer,
		AccountType:    profiledomain.AccountTypeCustomer,
		OrganizationID: &org.ID,
	}
	require.NoError(t, f.db.Create(&customer).Error)

	machine := machinedomain.VendingMachine{
		ID:                f.node.Generate(),
		MachineID:         fmt.Sprintf("VM-%s", customerID),
		Status:            machinedomain.StatusOnline,
		CustomerProfileID: &customerID,
	}
	require.NoError(t, f.db.Create(&machine).Error)

	paidAt := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	for i, amount := range coinPaisa {
		drop := coindomain.CoinPayment{
			ID:          f.node.Generate(),
			MachineID:   machine.ID,
			AmountPaisa: money.Paisa(amount),
			Dispensed:   true,
			PaidAt:      paidAt.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, f.db.Create(&drop).Error)
	}
	return &org
}

func julyWindow() (time.Time, time.Time) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func TestCreateInvoice_PendingWithActivity(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Acme Vending", "billing@acme.example", []int64{2500, 2500, 5000})
	start, end := julyWindow()

	invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	require.Equal(t, domain.StatusPending, invoice.Status)
	require.Equal(t, "INV-000001", invoice.InvoiceNumber)
	require.EqualValues(t, 10000, invoice.AmountPaisa)
	require.EqualValues(t, 10000, invoice.AmountDuePaisa)
	require.EqualValues(t, 0, invoice.AmountPaidPaisa)
	require.EqualValues(t, 3, invoice.PaymentCount)
	require.Equal(t, 1, invoice.MachineCount)
	require.NotNil(t, invoice.DueAt)
	require.Equal(t, f.clock.Now().AddDate(0, 0, 30), *invoice.DueAt)
}

func TestCreateInvoice_DraftWhenZero(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Idle Vending", "ops@idle.example", nil)
	start, end := julyWindow()

	invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, invoice.Status)
	require.EqualValues(t, 0, invoice.AmountPaisa)
	require.Equal(t, "No Payment Needed", invoice.DisplayStatus())
}

func TestCreateInvoice_DuplicatePeriod(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Acme Vending", "billing@acme.example", []int64{1000})
	start, end := julyWindow()

	req := domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	}
	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrDuplicatePeriod)

	// The rejected attempt must not leave a second row behind.
	var count int64
	require.NoError(t, f.db.Model(&domain.OrganizationInvoice{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateInvoice_RecordsGenerationMetricOnce(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Acme Vending", "billing@acme.example", []int64{1000})
	start, end := julyWindow()

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	require.EqualValues(t, 1, f.counterSum(t, "vendora_invoices_generated_total"))
}

func TestInvoiceNumbering_Monotonic(t *testing.T) {
	f := newInvoiceFixture(t)
	start, end := julyWindow()

	for i := 1; i <= 3; i++ {
		org := f.seedOrg(t, fmt.Sprintf("Org %d", i), "", []int64{1000})
		invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
			OrganizationID: org.ID.String(),
			PeriodStart:    start,
			PeriodEnd:      end,
		})
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("INV-%06d", i), invoice.InvoiceNumber)
	}
}

func TestRecordManualPayment_PartialThenSettled(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Acme Vending", "billing@acme.example", []int64{10000})
	start, end := julyWindow()

	invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	admin := authctx.Actor{ProfileID: f.node.Generate(), Role: "admin", AccountType: "admin"}

	updated, err := f.svc.RecordManualPayment(context.Background(), admin, domain.RecordPaymentRequest{
		InvoiceID:   invoice.ID.String(),
		AmountPaisa: 4000,
		Method:      domain.MethodBankTransfer,
		Reference:   "NEFT-123",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, updated.Status)
	require.EqualValues(t, 4000, updated.AmountPaidPaisa)
	require.EqualValues(t, 6000, updated.AmountDuePaisa)

	updated, err = f.svc.RecordManualPayment(context.Background(), admin, domain.RecordPaymentRequest{
		InvoiceID:   invoice.ID.String(),
		AmountPaisa: 6000,
		Method:      domain.MethodUPI,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, updated.Status)
	require.EqualValues(t, 0, updated.AmountDuePaisa)
	require.NotNil(t, updated.PaidAt)

	// Payment confirmations went to the org contact.
	require.Len(t, f.email.messages, 2)
}

func TestRecordManualPayment_RejectsBadMethod(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Acme Vending", "", []int64{1000})
	start, end := julyWindow()

	invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	_, err = f.svc.RecordManualPayment(context.Background(), authctx.Actor{}, domain.RecordPaymentRequest{
		InvoiceID:   invoice.ID.String(),
		AmountPaisa: 1000,
		Method:      domain.MethodOnline, // online goes through the gateway flow
	})
	require.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = f.svc.RecordManualPayment(context.Background(), authctx.Actor{}, domain.RecordPaymentRequest{
		InvoiceID:   invoice.ID.String(),
		AmountPaisa: 0,
		Method:      domain.MethodCash,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestBulkGenerateMonthly_SkipsAndIsolates(t *testing.T) {
	f := newInvoiceFixture(t)
	ref := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	orgA := f.seedOrg(t, "Org A", "", []int64{1000})
	orgB := f.seedOrg(t, "Org B", "", []int64{2000})

	// Invoice A up front so the bulk run has to skip it.
	start, end := julyWindow()
	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: orgA.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	results, err := f.svc.BulkGenerateMonthly(context.Background(), ref)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byOrg := map[snowflake.ID]domain.GenerationResult{}
	for _, r := range results {
		byOrg[r.OrganizationID] = r
	}
	require.True(t, byOrg[orgA.ID].Skipped)
	require.False(t, byOrg[orgB.ID].Skipped)
	require.NotZero(t, byOrg[orgB.ID].InvoiceID)
	require.Empty(t, byOrg[orgB.ID].Error)
}

func TestOnlinePayment_FullFlow(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Acme Vending", "billing@acme.example", []int64{10000})
	start, end := julyWindow()

	invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	actor := authctx.Actor{ProfileID: f.node.Generate(), Role: "customer", AccountType: "super_customer", OrganizationID: org.ID}

	order, err := f.svc.CreateOnlineOrder(context.Background(), actor, invoice.ID.String())
	require.NoError(t, err)
	require.Equal(t, "rzp_test_key", order.GatewayKeyID)
	require.EqualValues(t, 10000, order.AmountPaisa)
	require.NotEmpty(t, order.GatewayOrderID)

	// Tampered signature is rejected and nothing settles.
	_, err = f.svc.VerifyOnlinePayment(context.Background(), domain.VerifyPaymentRequest{
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        "tampered",
	})
	require.ErrorIs(t, err, paymentdomain.ErrInvalidSignature)

	settled, err := f.svc.VerifyOnlinePayment(context.Background(), domain.VerifyPaymentRequest{
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        "good-signature",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, settled.Status)
	require.EqualValues(t, 0, settled.AmountDuePaisa)

	// Gateway retry with the same capture is a no-op.
	replay, err := f.svc.VerifyOnlinePayment(context.Background(), domain.VerifyPaymentRequest{
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        "good-signature",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, replay.Status)
	require.EqualValues(t, settled.AmountPaidPaisa, replay.AmountPaidPaisa)

	// A different capture against the settled order is refused.
	_, err = f.svc.VerifyOnlinePayment(context.Background(), domain.VerifyPaymentRequest{
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: "pay_2",
		Signature:        "good-signature",
	})
	require.ErrorIs(t, err, domain.ErrNotPayable)
}

func TestCreateOnlineOrder_RejectsUnpayable(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Idle Vending", "", nil)
	start, end := julyWindow()

	draft, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateOnlineOrder(context.Background(), authctx.Actor{Role: "admin", AccountType: "admin"}, draft.ID.String())
	require.ErrorIs(t, err, domain.ErrNotPayable)
}

func TestMarkOverdue(t *testing.T) {
	f := newInvoiceFixture(t)
	org := f.seedOrg(t, "Acme Vending", "", []int64{5000})
	start, end := julyWindow()

	invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	// Before the due date nothing changes.
	n, err := f.svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	f.clock.Advance(31 * 24 * time.Hour)
	n, err = f.svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	reloaded, err := f.svc.Get(context.Background(), authctx.Actor{Role: "admin", AccountType: "admin"}, invoice.ID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusOverdue, reloaded.Status)
}

func TestSendInvoiceEmail(t *testing.T) {
	f := newInvoiceFixture(t)
	start, end := julyWindow()

	// No contact email on file.
	bare := f.seedOrg(t, "No Email Vending", "", []int64{1000})
	invoice, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: bare.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)
	err = f.svc.SendInvoiceEmail(context.Background(), invoice.ID.String())
	require.ErrorIs(t, err, domain.ErrNoContactEmail)

	// Happy path attaches the PDF and stamps the invoice.
	org := f.seedOrg(t, "Acme Vending", "billing@acme.example", []int64{5000})
	invoice, err = f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.SendInvoiceEmail(context.Background(), invoice.ID.String()))
	require.Len(t, f.email.messages, 1)
	require.Equal(t, []string{"billing@acme.example"}, f.email.messages[0].To)
	require.Len(t, f.email.messages[0].Attachments, 1)
	require.Equal(t, "INV-000002.pdf", f.email.messages[0].Attachments[0].Filename)

	reloaded, err := f.svc.Get(context.Background(), authctx.Actor{Role: "admin", AccountType: "admin"}, invoice.ID.String())
	require.NoError(t, err)
	require.True(t, reloaded.EmailSent)
	require.NotNil(t, reloaded.EmailSentAt)
	require.Equal(t, 1, reloaded.ReminderCount)
}

func TestSendDueReminders_Cadence(t *testing.T) {
	f := newInvoiceFixture(t)
	f.policy.Store(config.BillingPolicy{DueDays: 30, ReminderIntervalDays: 7, MaxReminders: 2})

	org := f.seedOrg(t, "Acme Vending", "billing@acme.example", []int64{5000})
	start, end := julyWindow()
	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: org.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	f.clock.Advance(31 * 24 * time.Hour)
	_, err = f.svc.MarkOverdue(context.Background())
	require.NoError(t, err)

	sent, err := f.svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	// Within the interval nothing more goes out.
	sent, err = f.svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)

	f.clock.Advance(8 * 24 * time.Hour)
	sent, err = f.svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	// MaxReminders caps the nagging.
	f.clock.Advance(8 * 24 * time.Hour)
	sent, err = f.svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)
}

func TestInvoiceScoping(t *testing.T) {
	f := newInvoiceFixture(t)
	orgA := f.seedOrg(t, "Org A", "", []int64{1000})
	orgB := f.seedOrg(t, "Org B", "", []int64{2000})
	start, end := julyWindow()

	invA, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: orgA.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), domain.CreateRequest{
		OrganizationID: orgB.ID.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)

	customer := authctx.Actor{ProfileID: f.node.Generate(), Role: "customer", AccountType: "customer", OrganizationID: orgA.ID}

	invoices, _, err := f.svc.List(context.Background(), customer, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	require.Equal(t, invA.ID, invoices[0].ID)

	// Another org's invoice is invisible even by direct id.
	otherCustomer := authctx.Actor{ProfileID: f.node.Generate(), Role: "customer", AccountType: "customer", OrganizationID: orgB.ID}
	_, err = f.svc.Get(context.Background(), otherCustomer, invA.ID.String())
	require.Error(t, err)
}
