package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	pkgdb "github.com/vendora/vendora/pkg/db"
	"github.com/vendora/vendora/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
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
		log:   p.Log.Named("profile.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProfileRequest) (domain.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Profile{}, domain.ErrInvalidEmail
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Profile{}, domain.ErrInvalidName
	}
	if len(req.Password) < 8 {
		return domain.Profile{}, domain.ErrInvalidPassword
	}

	role := strings.TrimSpace(req.Role)
	switch role {
	case domain.RoleAdmin, domain.RoleCustomer:
	default:
		return domain.Profile{}, domain.ErrInvalidRole
	}

	accountType := strings.TrimSpace(req.AccountType)
	switch accountType {
	case domain.AccountTypeAdmin, domain.AccountTypeCustomer, domain.AccountTypeSuperCustomer:
	default:
		return domain.Profile{}, domain.ErrInvalidAccountType
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Profile{}, err
	}

	now := time.Now().UTC()
	profile := domain.Profile{
		ID:             s.genID.Generate(),
		Email:          email,
		Name:           name,
		PasswordHash:   string(hash),
		Role:           role,
		AccountType:    accountType,
		OrganizationID: req.OrganizationID,
		Permissions:    datatypes.NewJSONType(req.Permissions),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &profile); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Profile{}, domain.ErrEmailTaken
		}
		return domain.Profile{}, err
	}

	return profile, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProfileRequest) (domain.Profile, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Profile{}, err
	}

	profile, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Profile{}, domain.ErrInvalidName
		}
		profile.Name = name
	}
	if req.Role != nil {
		switch *req.Role {
		case domain.RoleAdmin, domain.RoleCustomer:
			profile.Role = *req.Role
		default:
			return domain.Profile{}, domain.ErrInvalidRole
		}
	}
	if req.AccountType != nil {
		switch *req.AccountType {
		case domain.AccountTypeAdmin, domain.AccountTypeCustomer, domain.AccountTypeSuperCustomer:
			profile.AccountType = *req.AccountType
		default:
			return domain.Profile{}, domain.ErrInvalidAccountType
		}
	}
	if req.OrganizationID != nil {
		profile.OrganizationID = req.OrganizationID
	}
	if req.Permissions != nil {
		profile.Permissions = datatypes.NewJSONType(*req.Permissions)
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return domain.Profile{}, err
	}
	return *profile, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Profile, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Profile{}, err
	}

	profile, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *profile, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	profile, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *profile, nil
}

func (s *Service) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Profile, error) {
	items, err := s.repo.ListByOrganization(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		profiles = append(profiles, *item)
	}
	return profiles, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
