package revenue

import (
	"github.com/gatherhq/gatherpay/internal/revenue/service"
	"go.uber.org/fx"
)

var Module = fx.Module("revenue.service",
	fx.Provide(service.NewService),
)
