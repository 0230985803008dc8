package checkout

import (
	"github.com/gatherhq/gatherpay/internal/checkout/repository"
	"github.com/gatherhq/gatherpay/internal/checkout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("checkout.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
