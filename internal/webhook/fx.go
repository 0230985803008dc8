package webhook

import (
	"github.com/gatherhq/gatherpay/internal/config"
	"github.com/gatherhq/gatherpay/internal/webhook/domain"
	"github.com/gatherhq/gatherpay/internal/webhook/service"
	"github.com/gatherhq/gatherpay/internal/webhook/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook.service",
	fx.Provide(newAdapter),
	fx.Provide(service.NewService),
)

func newAdapter(cfg config.Config) (domain.Adapter, error) {
	return stripe.NewAdapter(cfg.GatewayWebhookSecret)
}
