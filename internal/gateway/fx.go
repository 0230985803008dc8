package gateway

import (
	"github.com/gatherhq/gatherpay/internal/config"
	"github.com/gatherhq/gatherpay/internal/gateway/domain"
	"github.com/gatherhq/gatherpay/internal/gateway/stripe"
	"github.com/gatherhq/gatherpay/internal/observability/metrics"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Cfg        config.Config
	ObsMetrics *metrics.Metrics `optional:"true"`
}

var Module = fx.Module("gateway",
	fx.Provide(func(p Params) domain.Client {
		return stripe.NewClient(p.Cfg.GatewayBaseURL, p.Cfg.GatewayAPIKey, p.ObsMetrics)
	}),
)
