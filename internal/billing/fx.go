package billing

import (
	"github.com/vendora/vendora/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(service.NewAggregator),
	fx.Provide(service.NewDashboard),
)
