package profile

import (
	"github.com/vendora/vendora/internal/profile/repository"
	"github.com/vendora/vendora/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
