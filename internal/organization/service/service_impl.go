package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/internal/organization/domain"
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
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.ContactEmail))
	if email != "" && !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	var owner *snowflake.ID
	if req.OwnerProfileID != nil && strings.TrimSpace(*req.OwnerProfileID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(*req.OwnerProfileID))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidOwner
		}
		owner = &id
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:             s.genID.Generate(),
		Name:           name,
		ContactEmail:   email,
		ContactPhone:   strings.TrimSpace(req.ContactPhone),
		Address:        strings.TrimSpace(req.Address),
		TaxID:          strings.TrimSpace(req.TaxID),
		Status:         domain.StatusActive,
		OwnerProfileID: owner,
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// scopeToActor enforces the tenant boundary after RBAC has allowed the
// action class. Non-admin actors only ever reach their own organization.
func scopeToActor(actor authctx.Actor, org *domain.Organization) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.OrganizationID == 0 || actor.OrganizationID != org.ID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *Service) Update(ctx context.Context, actor authctx.Actor, req domain.UpdateRequest) (*domain.Organization, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if err := scopeToActor(actor, org); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.ContactEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*req.ContactEmail))
		if email != "" && !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidEmail
		}
		org.ContactEmail = email
	}
	if req.ContactPhone != nil {
		org.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.Address != nil {
		org.Address = strings.TrimSpace(*req.Address)
	}
	if req.TaxID != nil {
		org.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.StatusActive, domain.StatusInactive:
			org.Status = *req.Status
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	if req.OwnerProfileID != nil {
		if strings.TrimSpace(*req.OwnerProfileID) == "" {
			org.OwnerProfileID = nil
		} else {
			ownerID, err := snowflake.ParseString(strings.TrimSpace(*req.OwnerProfileID))
			if err != nil || ownerID == 0 {
				return nil, domain.ErrInvalidOwner
			}
			org.OwnerProfileID = &ownerID
		}
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GetByID(ctx context.Context, actor authctx.Actor, rawID string) (*domain.Organization, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if err := scopeToActor(actor, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) GetByOwner(ctx context.Context, ownerProfileID snowflake.ID) (*domain.Organization, error) {
	if ownerProfileID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	org, err := s.repo.FindByOwner(ctx, s.db, ownerProfileID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *Service) List(ctx context.Context, actor authctx.Actor, page pagination.Pagination) ([]*domain.Organization, *pagination.PageInfo, error) {
	if actor.IsAdmin() {
		return s.repo.List(ctx, s.db, page)
	}

	// Non-admins get at most their own organization.
	if actor.OrganizationID == 0 {
		return []*domain.Organization{}, &pagination.PageInfo{}, nil
	}
	org, err := s.repo.FindByID(ctx, s.db, actor.OrganizationID)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return []*domain.Organization{}, &pagination.PageInfo{}, nil
	}
	return []*domain.Organization{org}, &pagination.PageInfo{}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidOrganization
	}
	return id, nil
}
