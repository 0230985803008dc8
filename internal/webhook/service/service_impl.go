package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	accountdomain "github.com/gatherhq/gatherpay/internal/account/domain"
	checkoutdomain "github.com/gatherhq/gatherpay/internal/checkout/domain"
	"github.com/gatherhq/gatherpay/internal/notifier"
	"github.com/gatherhq/gatherpay/internal/observability/metrics"
	"github.com/gatherhq/gatherpay/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Adapter    domain.Adapter
	Checkout   checkoutdomain.Service
	Account    accountdomain.Service
	Notifier   notifier.Provider
	ObsMetrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	adapter  domain.Adapter
	checkout checkoutdomain.Service
	account  accountdomain.Service
	notifier notifier.Provider
	metrics  *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("webhook.service"),
		adapter:  p.Adapter,
		checkout: p.Checkout,
		account:  p.Account,
		notifier: p.Notifier,
		metrics:  p.ObsMetrics,
	}
}

// Handle verifies the signature before touching storage or the gateway,
// then routes the event to the owning state machine. Redelivery safety
// comes from those state machines, not from tracking delivered event ids.
func (s *Service) Handle(ctx context.Context, payload []byte, headers http.Header) error {
	if err := s.adapter.Verify(ctx, payload, headers); err != nil {
		s.metrics.RecordWebhookEvent(ctx, "unknown", "rejected")
		return err
	}

	event, err := s.adapter.Parse(ctx, payload)
	if err != nil {
		s.metrics.RecordWebhookEvent(ctx, "unknown", "malformed")
		return err
	}

	switch event.Kind {
	case domain.KindSessionCompleted:
		return s.handleSessionCompleted(ctx, event)
	case domain.KindSessionExpired:
		return s.handleSessionExpired(ctx, event)
	case domain.KindAccountUpdated:
		return s.handleAccountUpdated(ctx, event)
	default:
		s.log.Debug("unrecognized webhook event acknowledged",
			zap.String("event_id", event.ID),
		)
		s.metrics.RecordWebhookEvent(ctx, domain.KindUnrecognized, "ignored")
		return nil
	}
}

func (s *Service) handleSessionCompleted(ctx context.Context, event *domain.Event) error {
	session := event.Session
	transitioned, err := s.checkout.MarkPaid(ctx, session.SessionID, session.PaymentIntentID, session.AmountTotal, session.Currency)
	if err != nil {
		s.metrics.RecordWebhookEvent(ctx, event.Kind, "failed")
		return err
	}
	if !transitioned {
		s.metrics.RecordWebhookEvent(ctx, event.Kind, "ignored")
		return nil
	}

	s.metrics.RecordWebhookEvent(ctx, event.Kind, "applied")
	s.dispatchConfirmation(session)
	return nil
}

func (s *Service) handleSessionExpired(ctx context.Context, event *domain.Event) error {
	transitioned, err := s.checkout.MarkExpired(ctx, event.Session.SessionID)
	if err != nil {
		s.metrics.RecordWebhookEvent(ctx, event.Kind, "failed")
		return err
	}
	outcome := "applied"
	if !transitioned {
		outcome = "ignored"
	}
	s.metrics.RecordWebhookEvent(ctx, event.Kind, outcome)
	return nil
}

func (s *Service) handleAccountUpdated(ctx context.Context, event *domain.Event) error {
	if !event.Account.ChargesEnabled {
		s.metrics.RecordWebhookEvent(ctx, event.Kind, "ignored")
		return nil
	}
	if err := s.account.Activate(ctx, event.Account.AccountID); err != nil {
		s.metrics.RecordWebhookEvent(ctx, event.Kind, "failed")
		return err
	}
	s.metrics.RecordWebhookEvent(ctx, event.Kind, "applied")
	return nil
}

// dispatchConfirmation sends the ticket confirmation on a fresh paid
// transition. Acknowledgment never waits on delivery, so this runs on its
// own goroutine with its own deadline.
func (s *Service) dispatchConfirmation(session *domain.SessionPayload) {
	if session.CustomerEmail == "" {
		return
	}

	to := session.CustomerEmail
	sessionID := session.SessionID
	amount := session.AmountTotal
	currency := session.Currency

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		subject := "Your ticket purchase is confirmed"
		body := fmt.Sprintf(
			"<p>Thanks for your purchase.</p><p>Order %s: %d %s (smallest unit).</p>",
			sessionID, amount, currency,
		)
		if err := s.notifier.Send(ctx, []string{to}, subject, body); err != nil {
			s.log.Warn("ticket confirmation delivery failed",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}()
}
