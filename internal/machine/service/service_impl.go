package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/internal/clock"
	"github.com/vendora/vendora/internal/machine/domain"
	pkgdb "github.com/vendora/vendora/pkg/db"
	"github.com/vendora/vendora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("machine.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.VendingMachine, error) {
	machineID := strings.TrimSpace(req.MachineID)
	if machineID == "" {
		return nil, domain.ErrInvalidMachineID
	}

	var customer *snowflake.ID
	if req.CustomerProfileID != nil && strings.TrimSpace(*req.CustomerProfileID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(*req.CustomerProfileID))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidCustomer
		}
		customer = &id
	}

	telemetry := datatypes.JSONMap{}
	for k, v := range req.Telemetry {
		telemetry[k] = v
	}

	now := s.clock.Now()
	machine := domain.VendingMachine{
		ID:                s.genID.Generate(),
		MachineID:         machineID,
		MACAddress:        strings.TrimSpace(req.MACAddress),
		Name:              strings.TrimSpace(req.Name),
		Location:          strings.TrimSpace(req.Location),
		Status:            domain.StatusOffline,
		Telemetry:         telemetry,
		CustomerProfileID: customer,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &machine); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrMachineIDTaken
		}
		return nil, err
	}
	return &machine, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.VendingMachine, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	machine, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		machine.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		machine.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.StatusOnline, domain.StatusOffline, domain.StatusMaintenance:
			machine.Status = *req.Status
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	if req.CustomerProfileID != nil {
		if strings.TrimSpace(*req.CustomerProfileID) == "" {
			machine.CustomerProfileID = nil
		} else {
			customerID, err := snowflake.ParseString(strings.TrimSpace(*req.CustomerProfileID))
			if err != nil || customerID == 0 {
				return nil, domain.ErrInvalidCustomer
			}
			machine.CustomerProfileID = &customerID
		}
	}
	machine.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, machine); err != nil {
		return nil, err
	}
	return machine, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	machine, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if machine == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GetByID(ctx context.Context, actor authctx.Actor, rawID string) (*domain.VendingMachine, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	machine, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, domain.ErrNotFound
	}
	// Customers only ever see their own machines; an unassigned machine
	// is invisible to them.
	if !actor.IsAdmin() {
		if machine.CustomerProfileID == nil || *machine.CustomerProfileID != actor.ProfileID {
			return nil, domain.ErrNotFound
		}
	}
	return machine, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]*domain.VendingMachine, *pagination.PageInfo, error) {
	if req.Status != "" {
		switch req.Status {
		case domain.StatusOnline, domain.StatusOffline, domain.StatusMaintenance:
		default:
			return nil, nil, domain.ErrInvalidStatus
		}
	}
	filter := domain.ListFilter{
		CustomerProfileID: req.CustomerProfileID,
		Status:            req.Status,
	}
	return s.repo.List(ctx, s.db, filter, req.Page)
}

func (s *Service) ListByCustomers(ctx context.Context, customerIDs []snowflake.ID) ([]*domain.VendingMachine, error) {
	return s.repo.ListByCustomers(ctx, s.db, customerIDs)
}

// CheckIn records a heartbeat. Unknown machine IDs are rejected rather
// than auto-registered; machines are provisioned by an admin first.
func (s *Service) CheckIn(ctx context.Context, req domain.CheckInRequest) (*domain.VendingMachine, error) {
	machineID := strings.TrimSpace(req.MachineID)
	if machineID == "" {
		return nil, domain.ErrInvalidMachineID
	}

	machine, err := s.repo.FindByMachineID(ctx, s.db, machineID)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, domain.ErrNotFound
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.StatusOnline
	}
	switch status {
	case domain.StatusOnline, domain.StatusOffline, domain.StatusMaintenance:
	default:
		return nil, domain.ErrInvalidStatus
	}
	machine.Status = status

	if mac := strings.TrimSpace(req.MACAddress); mac != "" {
		machine.MACAddress = mac
	}
	if len(req.Telemetry) > 0 {
		telemetry := datatypes.JSONMap{}
		for k, v := range req.Telemetry {
			telemetry[k] = v
		}
		machine.Telemetry = telemetry
	}

	now := s.clock.Now()
	machine.LastCheckinAt = &now
	machine.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, machine); err != nil {
		return nil, err
	}
	s.log.Debug("machine check-in",
		zap.String("machine_id", machineID),
		zap.String("status", status),
	)
	return machine, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
