package service

import (
	"context"
	"strings"

	"github.com/gatherhq/gatherpay/internal/clock"
	"github.com/gatherhq/gatherpay/internal/config"
	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	"github.com/gatherhq/gatherpay/internal/revenue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// chargePageSize caps how many charges one overview request pulls from
// the gateway.
const chargePageSize = 100

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Gateway gatewaydomain.Client
	Fees    *config.FeesConfigHolder
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	gateway gatewaydomain.Client
	fees    *config.FeesConfigHolder
}

func NewService(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("revenue.service"),
		clock:   p.Clock,
		gateway: p.Gateway,
		fees:    p.Fees,
	}
}

func (s *Service) Overview(ctx context.Context, accountID string) (*domain.Overview, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, domain.ErrInvalidAccount
	}

	charges, err := s.gateway.ListCharges(ctx, accountID, chargePageSize)
	if err != nil {
		return nil, err
	}

	feePercent := s.fees.Get().PlatformFeePercent
	analytics := Aggregate(charges, s.clock.Now(), feePercent)

	return &domain.Overview{
		Analytics: analytics,
		Payments:  charges,
	}, nil
}
