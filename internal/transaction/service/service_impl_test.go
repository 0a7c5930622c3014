package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/clock"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	machinerepo "github.com/vendora/vendora/internal/machine/repository"
	paymentdomain "github.com/vendora/vendora/internal/payment/domain"
	productdomain "github.com/vendora/vendora/internal/product/domain"
	productrepo "github.com/vendora/vendora/internal/product/repository"
	"github.com/vendora/vendora/internal/transaction/domain"
	"github.com/vendora/vendora/internal/transaction/repository"
)

type stubGateway struct {
	orders   int
	orderErr error
}

func (g *stubGateway) Provider() string { return "stub" }
func (g *stubGateway) KeyID() string    { return "rzp_test_key" }

func (g *stubGateway) CreateOrder(ctx context.Context, req paymentdomain.CreateOrderRequest) (*paymentdomain.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orders++
	return &paymentdomain.Order{
		ID:          fmt.Sprintf("order_stub_%d", g.orders),
		AmountPaisa: req.AmountPaisa,
		Currency:    "INR",
		Receipt:     req.Receipt,
		Status:      "created",
	}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) error {
	if signature != "good-signature" {
		return paymentdomain.ErrInvalidSignature
	}
	return nil
}

type checkoutFixture struct {
	db      *gorm.DB
	svc     domain.Service
	gateway *stubGateway
	node    *snowflake.Node
	machine machinedomain.VendingMachine
	cola    productdomain.Product
	chips   productdomain.Product
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&machinedomain.VendingMachine{},
		&productdomain.Product{},
		&domain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))
	gw := &stubGateway{}

	machine := machinedomain.VendingMachine{
		ID:        node.Generate(),
		MachineID: "VM-001",
		Status:    machinedomain.StatusOnline,
	}
	require.NoError(t, db.Create(&machine).Error)

	cola := productdomain.Product{ID: node.Generate(), SKU: "COLA-330", Name: "Cola 330ml", PricePaisa: 4000, Active: true}
	chips := productdomain.Product{ID: node.Generate(), SKU: "CHIPS-50", Name: "Chips 50g", PricePaisa: 2500, Active: true}
	require.NoError(t, db.Create(&cola).Error)
	require.NoError(t, db.Create(&chips).Error)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fc,
		Repo:        repository.Provide(),
		MachineRepo: machinerepo.Provide(),
		ProductRepo: productrepo.Provide(),
		Gateway:     gw,
	})
	return &checkoutFixture{db: db, svc: svc, gateway: gw, node: node, machine: machine, cola: cola, chips: chips}
}

func TestCheckout(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, domain.CheckoutRequest{
		MachineID: "VM-001",
		Items: []domain.CheckoutItem{
			{ProductID: f.cola.ID.String(), Quantity: 2},
			{ProductID: f.chips.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.EqualValues(t, 10500, resp.TotalPaisa)
	require.Equal(t, "order_stub_1", resp.GatewayOrderID)
	require.Equal(t, "rzp_test_key", resp.GatewayKeyID)

	txn, err := f.svc.GetByID(ctx, resp.TransactionID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, txn.Status)
	items := txn.Items.Data()
	require.Len(t, items, 2)
	// Price and name captured at sale time.
	require.Equal(t, "COLA-330", items[0].SKU)
	require.EqualValues(t, 4000, items[0].PricePaisa)
}

func TestCheckout_Validation(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, domain.CheckoutRequest{MachineID: "VM-404", Items: []domain.CheckoutItem{{ProductID: f.cola.ID.String(), Quantity: 1}}})
	require.ErrorIs(t, err, domain.ErrInvalidMachine)

	_, err = f.svc.Checkout(ctx, domain.CheckoutRequest{MachineID: "VM-001"})
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = f.svc.Checkout(ctx, domain.CheckoutRequest{MachineID: "VM-001", Items: []domain.CheckoutItem{{ProductID: f.cola.ID.String(), Quantity: 0}}})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Inactive products cannot be bought.
	require.NoError(t, f.db.Model(&productdomain.Product{}).Where("id = ?", f.chips.ID).Update("active", false).Error)
	_, err = f.svc.Checkout(ctx, domain.CheckoutRequest{MachineID: "VM-001", Items: []domain.CheckoutItem{{ProductID: f.chips.ID.String(), Quantity: 1}}})
	require.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestCheckout_GatewayFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.orderErr = paymentdomain.ErrGateway

	_, err := f.svc.Checkout(context.Background(), domain.CheckoutRequest{
		MachineID: "VM-001",
		Items:     []domain.CheckoutItem{{ProductID: f.cola.ID.String(), Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrGateway)

	// Nothing persisted for the failed order.
	var count int64
	require.NoError(t, f.db.Model(&domain.Transaction{}).Count(&count).Error)
	require.Zero(t, count)
}
