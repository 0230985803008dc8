package catalog

import (
	"github.com/gatherhq/gatherpay/internal/catalog/repository"
	"github.com/gatherhq/gatherpay/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
