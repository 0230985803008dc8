package domain

import (
	"context"
	"errors"
	"net/http"
)

// Event kinds produced by envelope parsing. Handlers switch on Kind only;
// raw provider type strings never leave the adapter.
const (
	KindSessionCompleted = "session_completed"
	KindSessionExpired   = "session_expired"
	KindAccountUpdated   = "account_updated"
	KindUnrecognized     = "unrecognized"
)

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrInvalidEvent     = errors.New("invalid_event")
)

// Event is the parsed webhook envelope. Exactly one payload pointer is
// non-nil for recognized kinds; both are nil for KindUnrecognized.
type Event struct {
	ID      string
	Kind    string
	Session *SessionPayload
	Account *AccountPayload
}

type SessionPayload struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	CustomerEmail   string
}

type AccountPayload struct {
	AccountID      string
	ChargesEnabled bool
}

// Adapter verifies and parses provider-specific webhook envelopes.
// Verify must run before any other work so unauthenticated requests
// never reach storage or the gateway.
type Adapter interface {
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*Event, error)
}

// Service routes verified events to the owning state machines.
type Service interface {
	Handle(ctx context.Context, payload []byte, headers http.Header) error
}
