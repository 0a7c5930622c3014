package transaction

import (
	"github.com/vendora/vendora/internal/transaction/repository"
	"github.com/vendora/vendora/internal/transaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
