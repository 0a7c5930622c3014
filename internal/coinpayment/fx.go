package coinpayment

import (
	"github.com/vendora/vendora/internal/coinpayment/repository"
	"github.com/vendora/vendora/internal/coinpayment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("coinpayment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
