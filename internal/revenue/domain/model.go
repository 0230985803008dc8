package domain

import (
	"context"
	"errors"

	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
)

// Analytics is the time-bucketed rollup of a connected account's charges.
// Currency is empty when the input had no charges at all.
type Analytics struct {
	AllTime       Bucket `json:"all_time"`
	CurrentMonth  Bucket `json:"current_month"`
	PreviousMonth Bucket `json:"previous_month"`
	Currency      string `json:"currency,omitempty"`
}

type Bucket struct {
	Revenue      int64 `json:"revenue"`
	PlatformFees int64 `json:"platform_fees"`
	TicketsSold  int64 `json:"tickets_sold"`
}

type Overview struct {
	Analytics Analytics              `json:"analytics"`
	Payments  []gatewaydomain.Charge `json:"payments"`
}

type Service interface {
	Overview(ctx context.Context, accountID string) (*Overview, error)
}

var ErrInvalidAccount = errors.New("invalid_account")
