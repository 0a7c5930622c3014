package providers

import (
	"github.com/vendora/vendora/internal/providers/email"
	"github.com/vendora/vendora/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
