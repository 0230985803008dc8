package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusCreated = "created"
	StatusPaid    = "paid"
	StatusExpired = "expired"
)

// CheckoutSession is one buyer payment attempt. Rows are the payment audit
// trail and are never deleted; created is the only non-terminal state.
type CheckoutSession struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	SessionID       string       `json:"session_id" gorm:"type:text;not null;uniqueIndex:ux_checkout_sessions_session"`
	UserID          string       `json:"user_id" gorm:"type:text;not null"`
	EventID         string       `json:"event_id" gorm:"type:text;not null;index"`
	Status          string       `json:"status" gorm:"type:text;not null;default:created"`
	PaymentIntentID *string      `json:"payment_intent_id,omitempty" gorm:"type:text"`
	AmountTotal     int64        `json:"amount_total" gorm:"not null;default:0"`
	Currency        *string      `json:"currency,omitempty" gorm:"type:text"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null"`
}

func (CheckoutSession) TableName() string { return "checkout_sessions" }
