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

	"github.com/vendora/vendora/internal/authctx"
	"github.com/vendora/vendora/internal/clock"
	"github.com/vendora/vendora/internal/machine/domain"
	"github.com/vendora/vendora/internal/machine/repository"
)

type machineFixture struct {
	db    *gorm.DB
	svc   domain.Service
	clock *clock.FakeClock
}

func newMachineFixture(t *testing.T) *machineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.VendingMachine{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fc,
		Repo:  repository.Provide(),
	})
	return &machineFixture{db: db, svc: svc, clock: fc}
}

func TestCreateMachine(t *testing.T) {
	f := newMachineFixture(t)
	ctx := context.Background()

	machine, err := f.svc.Create(ctx, domain.CreateRequest{
		MachineID: " VM-001 ",
		Name:      "Lobby",
		Location:  "HQ ground floor",
	})
	require.NoError(t, err)
	require.Equal(t, "VM-001", machine.MachineID)
	require.Equal(t, domain.StatusOffline, machine.Status)
	require.Nil(t, machine.CustomerProfileID)

	_, err = f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-001"})
	require.ErrorIs(t, err, domain.ErrMachineIDTaken)

	_, err = f.svc.Create(ctx, domain.CreateRequest{MachineID: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidMachineID)

	bad := "not-a-snowflake"
	_, err = f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-002", CustomerProfileID: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidCustomer)
}

func TestUpdateMachine(t *testing.T) {
	f := newMachineFixture(t)
	ctx := context.Background()

	machine, err := f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-001"})
	require.NoError(t, err)

	name := "Cafeteria"
	status := domain.StatusMaintenance
	updated, err := f.svc.Update(ctx, domain.UpdateRequest{
		ID:     machine.ID.String(),
		Name:   &name,
		Status: &status,
	})
	require.NoError(t, err)
	require.Equal(t, "Cafeteria", updated.Name)
	require.Equal(t, domain.StatusMaintenance, updated.Status)

	bogus := "parked"
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: machine.ID.String(), Status: &bogus})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	// Clearing the customer assignment with an empty string.
	empty := ""
	updated, err = f.svc.Update(ctx, domain.UpdateRequest{ID: machine.ID.String(), CustomerProfileID: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.CustomerProfileID)
}

func TestCheckIn(t *testing.T) {
	f := newMachineFixture(t)
	ctx := context.Background()

	machine, err := f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-001"})
	require.NoError(t, err)
	require.Nil(t, machine.LastCheckinAt)

	f.clock.Advance(time.Hour)
	checked, err := f.svc.CheckIn(ctx, domain.CheckInRequest{
		MachineID:  "VM-001",
		MACAddress: "aa:bb:cc:dd:ee:ff",
		Telemetry:  map[string]any{"temp_c": 4.5, "stock": 12},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOnline, checked.Status)
	require.Equal(t, "aa:bb:cc:dd:ee:ff", checked.MACAddress)
	require.NotNil(t, checked.LastCheckinAt)
	require.Equal(t, f.clock.Now(), *checked.LastCheckinAt)
	require.EqualValues(t, 4.5, checked.Telemetry["temp_c"])

	_, err = f.svc.CheckIn(ctx, domain.CheckInRequest{MachineID: "VM-404"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	bad := domain.CheckInRequest{MachineID: "VM-001", Status: "exploded"}
	_, err = f.svc.CheckIn(ctx, bad)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetMachine_ScopedToAssignedCustomer(t *testing.T) {
	f := newMachineFixture(t)
	ctx := context.Background()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	ownerID := node.Generate()
	owner := ownerID.String()

	assigned, err := f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-001", CustomerProfileID: &owner})
	require.NoError(t, err)
	unassigned, err := f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-002"})
	require.NoError(t, err)

	admin := authctx.Actor{ProfileID: node.Generate(), Role: "admin", AccountType: "admin"}
	customer := authctx.Actor{ProfileID: ownerID, Role: "customer", AccountType: "customer"}
	stranger := authctx.Actor{ProfileID: node.Generate(), Role: "customer", AccountType: "super_customer"}

	got, err := f.svc.GetByID(ctx, customer, assigned.ID.String())
	require.NoError(t, err)
	require.Equal(t, assigned.ID, got.ID)

	// Machines belonging to somebody else, or to nobody, do not exist
	// for non-admin actors.
	_, err = f.svc.GetByID(ctx, stranger, assigned.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.GetByID(ctx, customer, unassigned.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err = f.svc.GetByID(ctx, admin, unassigned.ID.String())
	require.NoError(t, err)
	require.Equal(t, unassigned.ID, got.ID)
}

func TestListMachines_StatusFilter(t *testing.T) {
	f := newMachineFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-001"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.CreateRequest{MachineID: "VM-002"})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, domain.CheckInRequest{MachineID: "VM-002"})
	require.NoError(t, err)

	online, _, err := f.svc.List(ctx, domain.ListRequest{Status: domain.StatusOnline})
	require.NoError(t, err)
	require.Len(t, online, 1)
	require.Equal(t, "VM-002", online[0].MachineID)

	_, _, err = f.svc.List(ctx, domain.ListRequest{Status: "parked"})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}
