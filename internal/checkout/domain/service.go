package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Create records the session at checkout-initiation time, before the
	// gateway can reference it in a webhook. Duplicate session ids are
	// no-ops.
	Create(ctx context.Context, req CreateSessionRequest) error

	// MarkPaid applies created -> paid. It reports whether this call
	// performed the transition: redeliveries of an already-paid session
	// return false with no error and never overwrite the first delivery's
	// fields; an expired session is a conflict that is logged and
	// acknowledged.
	MarkPaid(ctx context.Context, sessionID, paymentIntentID string, amountTotal int64, currency string) (bool, error)

	// MarkExpired applies created -> expired, symmetric to MarkPaid.
	MarkExpired(ctx context.Context, sessionID string) (bool, error)

	Get(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

type CreateSessionRequest struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	EventID     string `json:"event_id"`
	Currency    string `json:"currency"`
	AmountTotal int64  `json:"amount_total"`
}

var (
	ErrInvalidSession  = errors.New("invalid_session")
	ErrSessionNotFound = errors.New("session_not_found")
)
