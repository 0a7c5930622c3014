package payment

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vendora/vendora/internal/config"
	"github.com/vendora/vendora/internal/payment/domain"
	"github.com/vendora/vendora/internal/payment/razorpay"
	"github.com/vendora/vendora/internal/payment/service"
)

var Module = fx.Module("payment.service",
	fx.Provide(func(cfg config.Config, log *zap.Logger) (domain.Gateway, error) {
		return razorpay.New(razorpay.Config{
			KeyID:     cfg.RazorpayKeyID,
			KeySecret: cfg.RazorpayKeySecret,
			BaseURL:   cfg.RazorpayBaseURL,
		}, log)
	}),
	fx.Provide(service.New),
)
