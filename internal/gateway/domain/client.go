package domain

import (
	"context"
	"errors"
	"time"
)

// Client is the capability surface this service needs from the payment
// gateway. It is queried and commanded, never cached authoritatively: the
// gateway owns every identifier it hands back.
type Client interface {
	CreateAccount(ctx context.Context) (string, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	CreateProduct(ctx context.Context, name, description string) (string, error)
	CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error)
	DeactivatePrice(ctx context.Context, priceID string) error
	ListCharges(ctx context.Context, accountID string, limit int) ([]Charge, error)
}

// Charge is a read-only projection of a gateway payment record, used as
// aggregation input only.
type Charge struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

const ChargeStatusSucceeded = "succeeded"

var (
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
	ErrInvalidConfig      = errors.New("invalid_gateway_config")
)
