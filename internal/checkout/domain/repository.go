package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindBySession(ctx context.Context, db *gorm.DB, sessionID string) (*CheckoutSession, error)
	// Insert is a no-op when the session id already exists; it reports
	// whether this call created the row.
	Insert(ctx context.Context, db *gorm.DB, session *CheckoutSession) (bool, error)
	// Transition is the state gate: it updates only rows still in the
	// created state and reports whether one transitioned.
	Transition(ctx context.Context, db *gorm.DB, update TransitionUpdate) (bool, error)
}

// TransitionUpdate describes one conditional state change keyed by session.
type TransitionUpdate struct {
	SessionID       string
	ToStatus        string
	PaymentIntentID *string
	AmountTotal     *int64
	Currency        *string
	UpdatedAt       time.Time
}
