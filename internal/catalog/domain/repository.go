package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByEvent(ctx context.Context, db *gorm.DB, eventID string) (*EventProduct, error)
	// Upsert inserts or replaces the row keyed by event_id. The unique
	// constraint is the serialization point for racing creates.
	Upsert(ctx context.Context, db *gorm.DB, product *EventProduct) error
	// SwapActivePrice repoints active_price_id for the event.
	SwapActivePrice(ctx context.Context, db *gorm.DB, eventID, priceID string, unitAmount int64, updatedAt time.Time) (bool, error)
}
