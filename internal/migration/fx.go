package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	authdomain "github.com/vendora/vendora/internal/auth/domain"
	coindomain "github.com/vendora/vendora/internal/coinpayment/domain"
	"github.com/vendora/vendora/internal/config"
	invoicedomain "github.com/vendora/vendora/internal/invoice/domain"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	organizationdomain "github.com/vendora/vendora/internal/organization/domain"
	productdomain "github.com/vendora/vendora/internal/product/domain"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	"github.com/vendora/vendora/internal/seed"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "sqlite" {
			// Local development mode. AutoMigrate keeps sqlite in step
			// without maintaining a second dialect of SQL files.
			if err := conn.AutoMigrate(
				&profiledomain.Profile{},
				&authdomain.Session{},
				&organizationdomain.Organization{},
				&machinedomain.VendingMachine{},
				&productdomain.Product{},
				&coindomain.CoinPayment{},
				&transactiondomain.Transaction{},
				&invoicedomain.OrganizationInvoice{},
				&invoicedomain.OrganizationPayment{},
				&invoicedomain.InvoiceSequence{},
			); err != nil {
				return err
			}
		} else {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		if cfg.Bootstrap.EnsureDefaultAdmin {
			return seed.EnsureAdmin(conn, cfg.Bootstrap)
		}
		return nil
	}),
)
