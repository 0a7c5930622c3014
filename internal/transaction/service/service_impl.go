package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/clock"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	paymentdomain "github.com/vendora/vendora/internal/payment/domain"
	productdomain "github.com/vendora/vendora/internal/product/domain"
	"github.com/vendora/vendora/internal/transaction/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	MachineRepo machinedomain.Repository
	ProductRepo productdomain.Repository
	Gateway     paymentdomain.Gateway
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	machineRepo machinedomain.Repository
	productRepo productdomain.Repository
	gateway     paymentdomain.Gateway
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("transaction.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		machineRepo: p.MachineRepo,
		productRepo: p.ProductRepo,
		gateway:     p.Gateway,
	}
}

func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	hardwareID := strings.TrimSpace(req.MachineID)
	if hardwareID == "" {
		return nil, domain.ErrInvalidMachine
	}
	machine, err := s.machineRepo.FindByMachineID(ctx, s.db, hardwareID)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, domain.ErrInvalidMachine
	}

	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		productID, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || productID == 0 {
			return nil, domain.ErrInvalidProduct
		}
		product, err := s.productRepo.FindByID(ctx, s.db, productID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			return nil, domain.ErrInvalidProduct
		}
		items = append(items, domain.LineItem{
			ProductID:  product.ID,
			SKU:        product.SKU,
			Name:       product.Name,
			Quantity:   item.Quantity,
			PricePaisa: product.PricePaisa,
		})
		total += int64(product.PricePaisa) * int64(item.Quantity)
	}

	txnID := s.genID.Generate()
	order, err := s.gateway.CreateOrder(ctx, paymentdomain.CreateOrderRequest{
		AmountPaisa: money.Paisa(total),
		Currency:    "INR",
		Receipt:     fmt.Sprintf("txn_%s", txnID),
		Notes: map[string]string{
			"machine_id": hardwareID,
		},
	})
	if err != nil {
		s.log.Warn("gateway order create failed",
			zap.String("machine_id", hardwareID),
			zap.Error(err),
		)
		return nil, domain.ErrGateway
	}

	now := s.clock.Now()
	txn := domain.Transaction{
		ID:                txnID,
		MachineID:         machine.ID,
		CustomerProfileID: req.CustomerProfileID,
		Items:             datatypes.NewJSONType(items),
		TotalPaisa:        money.Paisa(total),
		Status:            domain.StatusPending,
		GatewayOrderID:    order.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, s.db, &txn); err != nil {
		return nil, err
	}

	return &domain.CheckoutResponse{
		TransactionID:  txn.ID,
		GatewayOrderID: order.ID,
		GatewayKeyID:   s.gateway.KeyID(),
		TotalPaisa:     txn.TotalPaisa,
		Currency:       order.Currency,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*domain.Transaction, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	txn, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	return txn, nil
}

func (s *Service) ListByMachines(ctx context.Context, machineIDs []snowflake.ID, page pagination.Pagination) ([]*domain.Transaction, *pagination.PageInfo, error) {
	return s.repo.ListByMachines(ctx, s.db, machineIDs, page)
}

func (s *Service) SumPaidWindow(ctx context.Context, machineIDs []snowflake.ID, start, end time.Time) (domain.WindowTotal, error) {
	return s.repo.SumPaidWindow(ctx, s.db, machineIDs, start, end)
}
