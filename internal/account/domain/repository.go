package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByHostUser(ctx context.Context, db *gorm.DB, hostUserID string) (*ConnectedAccount, error)
	FindByGatewayAccount(ctx context.Context, db *gorm.DB, gatewayAccountID string) (*ConnectedAccount, error)
	// Insert is a no-op when a row for the host already exists; it reports
	// whether this call created the row.
	Insert(ctx context.Context, db *gorm.DB, account *ConnectedAccount) (bool, error)
	// MarkActive flips charges_enabled only when it is still false; it
	// reports whether a row transitioned.
	MarkActive(ctx context.Context, db *gorm.DB, gatewayAccountID string, updatedAt time.Time) (bool, error)
}
