package domain

import (
	"context"
	"errors"
)

type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*CreateProductResponse, error)
	// DeactivatePrice retires a price on the gateway. The local row and
	// its active_price_id are untouched so historical sessions still
	// resolve the price.
	DeactivatePrice(ctx context.Context, priceID string) error
	// ReplacePrice retires the event's current price and swaps in a new
	// one at the given amount.
	ReplacePrice(ctx context.Context, eventID string, price float64) (string, error)
	GetByEvent(ctx context.Context, eventID string) (*EventProduct, error)
}

type CreateProductRequest struct {
	EventID          string         `json:"event_id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Price            float64        `json:"price"`
	Metadata         map[string]any `json:"metadata"`
	GatewayAccountID string         `json:"gateway_account_id"`
	Currency         string         `json:"currency"`
}

type CreateProductResponse struct {
	ProductID string `json:"product_id"`
	PriceID   string `json:"price_id"`
}

var (
	ErrInvalidEvent   = errors.New("invalid_event")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidAccount = errors.New("invalid_account")
	ErrNotFound       = errors.New("product_not_found")
)
