package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/vendora/vendora/internal/auth"
	"github.com/vendora/vendora/internal/authorization"
	"github.com/vendora/vendora/internal/billing"
	"github.com/vendora/vendora/internal/clock"
	"github.com/vendora/vendora/internal/coinpayment"
	"github.com/vendora/vendora/internal/config"
	"github.com/vendora/vendora/internal/invoice"
	"github.com/vendora/vendora/internal/machine"
	"github.com/vendora/vendora/internal/migration"
	"github.com/vendora/vendora/internal/observability"
	"github.com/vendora/vendora/internal/organization"
	"github.com/vendora/vendora/internal/payment"
	"github.com/vendora/vendora/internal/product"
	"github.com/vendora/vendora/internal/profile"
	"github.com/vendora/vendora/internal/providers"
	"github.com/vendora/vendora/internal/ratelimit"
	"github.com/vendora/vendora/internal/scheduler"
	"github.com/vendora/vendora/internal/server"
	"github.com/vendora/vendora/internal/transaction"
	"github.com/vendora/vendora/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		authorization.Module,
		auth.Module,
		profile.Module,
		organization.Module,
		machine.Module,
		product.Module,
		coinpayment.Module,
		transaction.Module,
		payment.Module,
		providers.Module,
		billing.Module,
		invoice.Module,
		ratelimit.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
