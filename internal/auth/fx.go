package auth

import (
	"github.com/vendora/vendora/internal/auth/repository"
	"github.com/vendora/vendora/internal/auth/service"
	"github.com/vendora/vendora/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
