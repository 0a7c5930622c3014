package machine

import (
	"github.com/vendora/vendora/internal/machine/repository"
	"github.com/vendora/vendora/internal/machine/service"
	"go.uber.org/fx"
)

var Module = fx.Module("machine.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
