package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/internal/organization/domain"
	orgrepo "github.com/vendora/vendora/internal/organization/repository"
	"github.com/vendora/vendora/pkg/db/pagination"
)

type orgFixture struct {
	db   *gorm.DB
	svc  domain.Service
	node *snowflake.Node
}

func newOrgFixture(t *testing.T) *orgFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Organization{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  orgrepo.Provide(),
	})

	return &orgFixture{db: db, svc: svc, node: node}
}

func (f *orgFixture) seedOrg(t *testing.T, name string) *domain.Organization {
	t.Helper()
	org, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Name:         name,
		ContactEmail: "billing@" + name + ".example",
	})
	require.NoError(t, err)
	return org
}

func adminActor() authctx.Actor {
	return authctx.Actor{ProfileID: 1, Role: "admin", AccountType: "admin"}
}

func superActor(orgID snowflake.ID) authctx.Actor {
	return authctx.Actor{
		ProfileID:      2,
		Role:           "customer",
		AccountType:    "super_customer",
		OrganizationID: orgID,
	}
}

func TestCreateOrganization(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	org, err := f.svc.Create(ctx, domain.CreateRequest{
		Name:         "  Acme Vending  ",
		ContactEmail: "Billing@Acme.Example",
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Vending", org.Name)
	require.Equal(t, "billing@acme.example", org.ContactEmail)
	require.Equal(t, domain.StatusActive, org.Status)

	_, err = f.svc.Create(ctx, domain.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(ctx, domain.CreateRequest{Name: "Bad Email", ContactEmail: "nope"})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUpdateOrganization_ScopedToOwnOrganization(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()
	acme := f.seedOrg(t, "acme")
	globex := f.seedOrg(t, "globex")

	name := "Acme Vending Pvt Ltd"

	// A super customer can update the organization they belong to.
	updated, err := f.svc.Update(ctx, superActor(acme.ID), domain.UpdateRequest{
		ID:   acme.ID.String(),
		Name: &name,
	})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)

	// But never anybody else's.
	hijack := "Hijacked"
	_, err = f.svc.Update(ctx, superActor(acme.ID), domain.UpdateRequest{
		ID:   globex.ID.String(),
		Name: &hijack,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.svc.GetByID(ctx, adminActor(), globex.ID.String())
	require.NoError(t, err)
	require.Equal(t, "globex", got.Name)

	// Admins update across tenants.
	_, err = f.svc.Update(ctx, adminActor(), domain.UpdateRequest{
		ID:   globex.ID.String(),
		Name: &name,
	})
	require.NoError(t, err)
}

func TestGetOrganization_ScopedToOwnOrganization(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()
	acme := f.seedOrg(t, "acme")
	globex := f.seedOrg(t, "globex")

	got, err := f.svc.GetByID(ctx, superActor(acme.ID), acme.ID.String())
	require.NoError(t, err)
	require.Equal(t, acme.ID, got.ID)

	_, err = f.svc.GetByID(ctx, superActor(acme.ID), globex.ID.String())
	require.ErrorIs(t, err, domain.ErrForbidden)

	// An actor without an organization cannot read any.
	_, err = f.svc.GetByID(ctx, authctx.Actor{ProfileID: 9, Role: "customer", AccountType: "customer"}, acme.ID.String())
	require.ErrorIs(t, err, domain.ErrForbidden)

	got, err = f.svc.GetByID(ctx, adminActor(), globex.ID.String())
	require.NoError(t, err)
	require.Equal(t, globex.ID, got.ID)
}

func TestListOrganizations_NonAdminSeesOwnOnly(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()
	acme := f.seedOrg(t, "acme")
	f.seedOrg(t, "globex")

	orgs, _, err := f.svc.List(ctx, adminActor(), pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, orgs, 2)

	orgs, _, err = f.svc.List(ctx, superActor(acme.ID), pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	require.Equal(t, acme.ID, orgs[0].ID)

	orgs, _, err = f.svc.List(ctx, authctx.Actor{ProfileID: 9, Role: "customer", AccountType: "customer"}, pagination.Pagination{})
	require.NoError(t, err)
	require.Empty(t, orgs)
}
