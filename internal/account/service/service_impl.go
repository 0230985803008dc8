package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherhq/gatherpay/internal/account/domain"
	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Gateway gatewaydomain.Client
	Repo    domain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	gateway gatewaydomain.Client
	repo    domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("account.service"),
		genID:   p.GenID,
		gateway: p.Gateway,
		repo:    p.Repo,
	}
}

func (s *Service) EnsureAccount(ctx context.Context, hostUserID string) (string, error) {
	hostUserID = strings.TrimSpace(hostUserID)
	if hostUserID == "" {
		return "", domain.ErrInvalidHostUser
	}

	existing, err := s.repo.FindByHostUser(ctx, s.db, hostUserID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.GatewayAccountID, nil
	}

	// Gateway first, persistence second: a failed create leaves no local
	// state, a failed insert leaves a gateway account we log for manual
	// reconciliation.
	gatewayAccountID, err := s.gateway.CreateAccount(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	record := &domain.ConnectedAccount{
		ID:               s.genID.Generate(),
		HostUserID:       hostUserID,
		GatewayAccountID: gatewayAccountID,
		ChargesEnabled:   false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	inserted, err := s.repo.Insert(ctx, s.db, record)
	if err != nil {
		s.log.Error("connected account persisted on gateway but not locally",
			zap.String("host_user_id", hostUserID),
			zap.String("gateway_account_id", gatewayAccountID),
			zap.Error(err),
		)
		return "", err
	}
	if !inserted {
		// Lost the insert race. The store's unique constraint is the
		// serialization point; our gateway account is now an orphan.
		winner, err := s.repo.FindByHostUser(ctx, s.db, hostUserID)
		if err != nil {
			return "", err
		}
		if winner == nil {
			return "", domain.ErrAccountNotFound
		}
		s.log.Warn("duplicate gateway account orphaned by concurrent onboarding",
			zap.String("host_user_id", hostUserID),
			zap.String("orphaned_gateway_account_id", gatewayAccountID),
			zap.String("kept_gateway_account_id", winner.GatewayAccountID),
		)
		return winner.GatewayAccountID, nil
	}

	return gatewayAccountID, nil
}

func (s *Service) OnboardingLink(ctx context.Context, gatewayAccountID, refreshURL, returnURL string) (string, error) {
	gatewayAccountID = strings.TrimSpace(gatewayAccountID)
	if gatewayAccountID == "" {
		return "", domain.ErrInvalidAccount
	}
	return s.gateway.CreateAccountLink(ctx, gatewayAccountID, refreshURL, returnURL)
}

func (s *Service) Activate(ctx context.Context, gatewayAccountID string) error {
	gatewayAccountID = strings.TrimSpace(gatewayAccountID)
	if gatewayAccountID == "" {
		return domain.ErrInvalidAccount
	}

	transitioned, err := s.repo.MarkActive(ctx, s.db, gatewayAccountID, time.Now().UTC())
	if err != nil {
		return err
	}
	if transitioned {
		s.log.Info("connected account activated", zap.String("gateway_account_id", gatewayAccountID))
		return nil
	}

	existing, err := s.repo.FindByGatewayAccount(ctx, s.db, gatewayAccountID)
	if err != nil {
		return err
	}
	if existing == nil {
		// The notification may race onboarding persistence, or the account
		// was created out of band. Dropping beats inventing a record.
		s.log.Warn("activation for unknown connected account ignored",
			zap.String("gateway_account_id", gatewayAccountID))
	}
	return nil
}
