package product

import (
	"github.com/vendora/vendora/internal/product/repository"
	"github.com/vendora/vendora/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
