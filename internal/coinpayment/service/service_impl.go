package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/clock"
	"github.com/vendora/vendora/internal/coinpayment/domain"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	machineRepo machinedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("coinpayment.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		machineRepo: p.MachineRepo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (*domain.CoinPayment, error) {
	if req.AmountPaisa <= 0 {
		return nil, domain.ErrInvalidAmount
	}

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

	var productID *snowflake.ID
	if req.ProductID != nil && strings.TrimSpace(*req.ProductID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(*req.ProductID))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidProduct
		}
		productID = &id
	}

	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = s.clock.Now()
	}

	payment := domain.CoinPayment{
		ID:          s.genID.Generate(),
		MachineID:   machine.ID,
		ProductID:   productID,
		AmountPaisa: money.Paisa(req.AmountPaisa),
		Dispensed:   req.Dispensed,
		PaidAt:      paidAt.UTC(),
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return nil, err
	}
	s.log.Debug("coin payment recorded",
		zap.String("machine_id", hardwareID),
		zap.Int64("amount_paisa", req.AmountPaisa),
		zap.Bool("dispensed", req.Dispensed),
	)
	return &payment, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*domain.CoinPayment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	return payment, nil
}

func (s *Service) ListByMachines(ctx context.Context, machineIDs []snowflake.ID, page pagination.Pagination) ([]*domain.CoinPayment, *pagination.PageInfo, error) {
	return s.repo.ListByMachines(ctx, s.db, machineIDs, page)
}

func (s *Service) SumWindow(ctx context.Context, machineIDs []snowflake.ID, start, end time.Time) (domain.WindowTotal, error) {
	return s.repo.SumWindow(ctx, s.db, machineIDs, start, end)
}
