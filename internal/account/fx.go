package account

import (
	"github.com/gatherhq/gatherpay/internal/account/repository"
	"github.com/gatherhq/gatherpay/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
