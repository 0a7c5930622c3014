package service

import (
	"context"
	"strings"

	"github.com/vendora/vendora/internal/clock"
	"github.com/vendora/vendora/internal/observability/metrics"
	"github.com/vendora/vendora/internal/payment/domain"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	Clock           clock.Clock
	Gateway         domain.Gateway
	TransactionRepo transactiondomain.Repository
	Metrics         *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	gateway domain.Gateway
	txnRepo transactiondomain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("payment.service"),
		clock:   p.Clock,
		gateway: p.Gateway,
		txnRepo: p.TransactionRepo,
		metrics: p.Metrics,
	}
}

func (s *Service) VerifyAndRecord(ctx context.Context, req domain.VerifyRequest) (*transactiondomain.Transaction, error) {
	orderID := strings.TrimSpace(req.GatewayOrderID)
	paymentID := strings.TrimSpace(req.GatewayPaymentID)

	if err := s.gateway.VerifySignature(orderID, paymentID, req.Signature); err != nil {
		s.log.Warn("capture signature rejected", zap.String("gateway_order_id", orderID))
		return nil, err
	}

	var settled *transactiondomain.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := s.txnRepo.FindByGatewayOrderID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if txn == nil {
			return domain.ErrOrderNotFound
		}

		if txn.Status == transactiondomain.StatusPaid {
			// Gateway retries deliver the same capture more than once.
			if txn.GatewayPaymentID == paymentID {
				settled = txn
				return nil
			}
			return domain.ErrAlreadySettled
		}

		now := s.clock.Now()
		txn.Status = transactiondomain.StatusPaid
		txn.GatewayPaymentID = paymentID
		txn.PaidAt = &now
		txn.UpdatedAt = now
		if err := s.txnRepo.Update(ctx, tx, txn); err != nil {
			return err
		}
		settled = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentRecorded(ctx, "online")
	}
	s.log.Info("online payment settled",
		zap.String("gateway_order_id", orderID),
		zap.String("gateway_payment_id", paymentID),
		zap.Int64("amount_paisa", int64(settled.TotalPaisa)),
	)
	return settled, nil
}
