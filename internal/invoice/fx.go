package invoice

import (
	"github.com/vendora/vendora/internal/invoice/repository"
	"github.com/vendora/vendora/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
