package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vendora/vendora/internal/auth/domain"
	"github.com/vendora/vendora/internal/auth/repository"
	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/internal/clock"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 24 * time.Hour

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        repository.Repository
	ProfileRepo profiledomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        repository.Repository
	profileRepo profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("auth.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	profile, err := s.profileRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if profile == nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return domain.LoginResponse{}, err
	}

	now := s.clock.Now()
	session := domain.Session{
		ID:        s.genID.Generate(),
		ProfileID: profile.ID,
		Token:     token,
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &session); err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Token:     token,
		Actor:     actorFromProfile(profile),
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (authctx.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authctx.Actor{}, domain.ErrInvalidSession
	}

	session, err := s.repo.FindByToken(ctx, s.db, token)
	if err != nil {
		return authctx.Actor{}, err
	}
	if session == nil {
		return authctx.Actor{}, domain.ErrInvalidSession
	}
	if session.RevokedAt != nil {
		return authctx.Actor{}, domain.ErrSessionRevoked
	}
	if !s.clock.Now().Before(session.ExpiresAt) {
		return authctx.Actor{}, domain.ErrSessionExpired
	}

	profile, err := s.profileRepo.FindByID(ctx, s.db, session.ProfileID)
	if err != nil {
		return authctx.Actor{}, err
	}
	if profile == nil {
		return authctx.Actor{}, domain.ErrInvalidSession
	}

	return actorFromProfile(profile), nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.repo.Revoke(ctx, s.db, token, s.clock.Now())
}

func actorFromProfile(profile *profiledomain.Profile) authctx.Actor {
	actor := authctx.Actor{
		ProfileID:   profile.ID,
		Email:       profile.Email,
		Role:        profile.Role,
		AccountType: profile.AccountType,
	}
	if profile.OrganizationID != nil {
		actor.OrganizationID = *profile.OrganizationID
	}
	return actor
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
