package organization

import (
	"github.com/vendora/vendora/internal/organization/repository"
	"github.com/vendora/vendora/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
