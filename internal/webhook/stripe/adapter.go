package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gatherhq/gatherpay/internal/webhook/domain"
)

// Adapter verifies Stripe webhook signatures and maps envelope types to
// domain event kinds.
type Adapter struct {
	webhookSecret string
}

func NewAdapter(webhookSecret string) (*Adapter, error) {
	secret := strings.TrimSpace(webhookSecret)
	if secret == "" {
		return nil, errors.New("invalid_config")
	}
	return &Adapter{webhookSecret: secret}, nil
}

func (a *Adapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	sigHeader := strings.TrimSpace(headers.Get("Stripe-Signature"))
	if sigHeader == "" {
		return domain.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return domain.ErrInvalidSignature
}

func (a *Adapter) Parse(ctx context.Context, payload []byte) (*domain.Event, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, domain.ErrInvalidEvent
	}

	switch strings.TrimSpace(event.Type) {
	case "checkout.session.completed":
		return parseSession(event, domain.KindSessionCompleted)
	case "checkout.session.expired":
		return parseSession(event, domain.KindSessionExpired)
	case "account.updated":
		return parseAccount(event)
	default:
		return &domain.Event{ID: event.ID, Kind: domain.KindUnrecognized}, nil
	}
}

type stripeEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripeSession struct {
	ID              string                `json:"id"`
	PaymentIntent   string                `json:"payment_intent"`
	AmountTotal     int64                 `json:"amount_total"`
	Currency        string                `json:"currency"`
	CustomerDetails stripeCustomerDetails `json:"customer_details"`
}

type stripeCustomerDetails struct {
	Email string `json:"email"`
}

type stripeAccount struct {
	ID             string `json:"id"`
	ChargesEnabled bool   `json:"charges_enabled"`
}

func parseSession(event stripeEvent, kind string) (*domain.Event, error) {
	var session stripeSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(session.ID) == "" {
		return nil, domain.ErrInvalidEvent
	}
	return &domain.Event{
		ID:   event.ID,
		Kind: kind,
		Session: &domain.SessionPayload{
			SessionID:       session.ID,
			PaymentIntentID: strings.TrimSpace(session.PaymentIntent),
			AmountTotal:     session.AmountTotal,
			Currency:        strings.ToUpper(strings.TrimSpace(session.Currency)),
			CustomerEmail:   strings.TrimSpace(session.CustomerDetails.Email),
		},
	}, nil
}

func parseAccount(event stripeEvent) (*domain.Event, error) {
	var account stripeAccount
	if err := json.Unmarshal(event.Data.Object, &account); err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(account.ID) == "" {
		return nil, domain.ErrInvalidEvent
	}
	return &domain.Event{
		ID:   event.ID,
		Kind: domain.KindAccountUpdated,
		Account: &domain.AccountPayload{
			AccountID:      account.ID,
			ChargesEnabled: account.ChargesEnabled,
		},
	}, nil
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return timestamp, signatures, nil
}
