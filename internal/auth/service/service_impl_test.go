package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/auth/domain"
	"github.com/vendora/vendora/internal/auth/repository"
	"github.com/vendora/vendora/internal/clock"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	profilerepo "github.com/vendora/vendora/internal/profile/repository"
)

type authFixture struct {
	db    *gorm.DB
	svc   domain.Service
	clock *clock.FakeClock
	node  *snowflake.Node
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profiledomain.Profile{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fc,
		Repo:        repository.Provide(),
		ProfileRepo: profilerepo.Provide(),
	})
	return &authFixture{db: db, svc: svc, clock: fc, node: node}
}

func (f *authFixture) seedProfile(t *testing.T, email, password string) *profiledomain.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	profile := profiledomain.Profile{
		ID:           f.node.Generate(),
		Email:        email,
		Name:         "Ops",
		PasswordHash: string(hash),
		Role:         profiledomain.RoleAdmin,
		AccountType:  profiledomain.AccountTypeAdmin,
	}
	require.NoError(t, f.db.Create(&profile).Error)
	return &profile
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	profile := f.seedProfile(t, "admin@vendora.example", "s3cret")
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Email: "Admin@Vendora.example ", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, profile.ID, resp.Actor.ProfileID)
	require.Equal(t, "admin", resp.Actor.Role)

	expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	require.NoError(t, err)
	require.Equal(t, f.clock.Now().Add(24*time.Hour), expires.UTC())

	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "admin@vendora.example", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "nobody@vendora.example", Password: "s3cret"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	profile := f.seedProfile(t, "admin@vendora.example", "s3cret")
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Email: "admin@vendora.example", Password: "s3cret"})
	require.NoError(t, err)

	actor, err := f.svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	require.Equal(t, profile.ID, actor.ProfileID)

	_, err = f.svc.Authenticate(ctx, "bogus")
	require.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = f.svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestAuthenticate_Expiry(t *testing.T) {
	f := newAuthFixture(t)
	f.seedProfile(t, "admin@vendora.example", "s3cret")
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Email: "admin@vendora.example", Password: "s3cret"})
	require.NoError(t, err)

	f.clock.Advance(24*time.Hour + time.Second)
	_, err = f.svc.Authenticate(ctx, resp.Token)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLogout_RevokesSession(t *testing.T) {
	f := newAuthFixture(t)
	f.seedProfile(t, "admin@vendora.example", "s3cret")
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Email: "admin@vendora.example", Password: "s3cret"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, resp.Token))
	_, err = f.svc.Authenticate(ctx, resp.Token)
	require.ErrorIs(t, err, domain.ErrSessionRevoked)

	// Logging out an unknown or empty token is a no-op.
	require.NoError(t, f.svc.Logout(ctx, "bogus"))
	require.NoError(t, f.svc.Logout(ctx, ""))
}
