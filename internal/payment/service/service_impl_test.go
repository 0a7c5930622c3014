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

	"github.com/vendora/vendora/internal/clock"
	"github.com/vendora/vendora/internal/payment/domain"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
	transactionrepo "github.com/vendora/vendora/internal/transaction/repository"
)

type stubGateway struct{}

func (stubGateway) Provider() string { return "stub" }
func (stubGateway) KeyID() string    { return "rzp_test_key" }

func (stubGateway) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	return nil, domain.ErrGateway
}

func (stubGateway) VerifySignature(orderID, paymentID, signature string) error {
	if signature != "good-signature" {
		return domain.ErrInvalidSignature
	}
	return nil
}

func newSettleFixture(t *testing.T) (*gorm.DB, domain.Service, *transactiondomain.Transaction) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&transactiondomain.Transaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	txn := transactiondomain.Transaction{
		ID:             node.Generate(),
		MachineID:      node.Generate(),
		TotalPaisa:     6500,
		Status:         transactiondomain.StatusPending,
		GatewayOrderID: "order_abc",
	}
	require.NoError(t, db.Create(&txn).Error)

	svc := New(Params{
		DB:              db,
		Log:             zap.NewNop(),
		Clock:           clock.NewFakeClock(time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)),
		Gateway:         stubGateway{},
		TransactionRepo: transactionrepo.Provide(),
	})
	return db, svc, &txn
}

func TestVerifyAndRecord(t *testing.T) {
	_, svc, txn := newSettleFixture(t)
	ctx := context.Background()

	settled, err := svc.VerifyAndRecord(ctx, domain.VerifyRequest{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_1",
		Signature:        "good-signature",
	})
	require.NoError(t, err)
	require.Equal(t, txn.ID, settled.ID)
	require.Equal(t, transactiondomain.StatusPaid, settled.Status)
	require.Equal(t, "pay_1", settled.GatewayPaymentID)
	require.NotNil(t, settled.PaidAt)
}

func TestVerifyAndRecord_ReplayIsIdempotent(t *testing.T) {
	_, svc, _ := newSettleFixture(t)
	ctx := context.Background()

	req := domain.VerifyRequest{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_1",
		Signature:        "good-signature",
	}
	first, err := svc.VerifyAndRecord(ctx, req)
	require.NoError(t, err)

	replay, err := svc.VerifyAndRecord(ctx, req)
	require.NoError(t, err)
	require.Equal(t, first.ID, replay.ID)
	require.Equal(t, first.PaidAt.UTC(), replay.PaidAt.UTC())

	// A different capture against a settled order is refused.
	req.GatewayPaymentID = "pay_2"
	_, err = svc.VerifyAndRecord(ctx, req)
	require.ErrorIs(t, err, domain.ErrAlreadySettled)
}

func TestVerifyAndRecord_Rejections(t *testing.T) {
	db, svc, _ := newSettleFixture(t)
	ctx := context.Background()

	_, err := svc.VerifyAndRecord(ctx, domain.VerifyRequest{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_1",
		Signature:        "tampered",
	})
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	// Signature failure leaves the transaction untouched.
	var reloaded transactiondomain.Transaction
	require.NoError(t, db.Where("gateway_order_id = ?", "order_abc").First(&reloaded).Error)
	require.Equal(t, transactiondomain.StatusPending, reloaded.Status)

	_, err = svc.VerifyAndRecord(ctx, domain.VerifyRequest{
		GatewayOrderID:   "order_unknown",
		GatewayPaymentID: "pay_1",
		Signature:        "good-signature",
	})
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
