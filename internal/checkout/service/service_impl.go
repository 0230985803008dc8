package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherhq/gatherpay/internal/checkout/domain"
	"github.com/gatherhq/gatherpay/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	ObsMetrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	obsMetrics *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("checkout.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSessionRequest) error {
	sessionID := strings.TrimSpace(req.SessionID)
	userID := strings.TrimSpace(req.UserID)
	eventID := strings.TrimSpace(req.EventID)
	if sessionID == "" || userID == "" || eventID == "" {
		return domain.ErrInvalidSession
	}

	now := time.Now().UTC()
	record := &domain.CheckoutSession{
		ID:          s.genID.Generate(),
		SessionID:   sessionID,
		UserID:      userID,
		EventID:     eventID,
		Status:      domain.StatusCreated,
		AmountTotal: req.AmountTotal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if currency := strings.ToUpper(strings.TrimSpace(req.Currency)); currency != "" {
		record.Currency = &currency
	}

	inserted, err := s.repo.Insert(ctx, s.db, record)
	if err != nil {
		return err
	}
	if !inserted {
		s.log.Debug("checkout session already recorded", zap.String("session_id", sessionID))
	}
	return nil
}

func (s *Service) MarkPaid(ctx context.Context, sessionID, paymentIntentID string, amountTotal int64, currency string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, domain.ErrInvalidSession
	}

	existing, err := s.repo.FindBySession(ctx, s.db, sessionID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		// Sessions are recorded at checkout initiation, before any webhook
		// can reference them. A miss here is an upstream bug, not a
		// transient condition.
		return false, domain.ErrSessionNotFound
	}

	switch existing.Status {
	case domain.StatusPaid:
		return false, nil
	case domain.StatusExpired:
		s.log.Warn("paid notification for expired session ignored",
			zap.String("session_id", sessionID),
			zap.String("payment_intent_id", paymentIntentID),
		)
		return false, nil
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	update := domain.TransitionUpdate{
		SessionID:       sessionID,
		ToStatus:        domain.StatusPaid,
		PaymentIntentID: &paymentIntentID,
		AmountTotal:     &amountTotal,
		UpdatedAt:       time.Now().UTC(),
	}
	if currency != "" {
		update.Currency = &currency
	}

	transitioned, err := s.repo.Transition(ctx, s.db, update)
	if err != nil {
		return false, err
	}
	if !transitioned {
		// Lost a redelivery race; the row left created between our read
		// and write. The winner's fields stand.
		return s.resolveRace(ctx, sessionID, domain.StatusPaid)
	}

	s.obsMetrics.RecordCheckoutTransition(ctx, domain.StatusPaid)
	return true, nil
}

func (s *Service) MarkExpired(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, domain.ErrInvalidSession
	}

	existing, err := s.repo.FindBySession(ctx, s.db, sessionID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, domain.ErrSessionNotFound
	}

	switch existing.Status {
	case domain.StatusExpired:
		return false, nil
	case domain.StatusPaid:
		s.log.Warn("expiry notification for paid session ignored",
			zap.String("session_id", sessionID))
		return false, nil
	}

	transitioned, err := s.repo.Transition(ctx, s.db, domain.TransitionUpdate{
		SessionID: sessionID,
		ToStatus:  domain.StatusExpired,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	if !transitioned {
		return s.resolveRace(ctx, sessionID, domain.StatusExpired)
	}

	s.obsMetrics.RecordCheckoutTransition(ctx, domain.StatusExpired)
	return true, nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domain.ErrInvalidSession
	}
	item, err := s.repo.FindBySession(ctx, s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrSessionNotFound
	}
	return item, nil
}

func (s *Service) resolveRace(ctx context.Context, sessionID, wanted string) (bool, error) {
	current, err := s.repo.FindBySession(ctx, s.db, sessionID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, domain.ErrSessionNotFound
	}
	if current.Status != wanted {
		s.log.Warn("conflicting terminal transition ignored",
			zap.String("session_id", sessionID),
			zap.String("current_status", current.Status),
			zap.String("requested_status", wanted),
		)
	}
	return false, nil
}
