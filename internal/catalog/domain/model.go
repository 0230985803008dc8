package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EventProduct binds one event to its sellable gateway product and the
// single active price. active_price_id always points at a live price; it is
// swapped only when a replacement exists, never cleared.
type EventProduct struct {
	ID               snowflake.ID      `json:"id" gorm:"primaryKey"`
	EventID          string            `json:"event_id" gorm:"type:text;not null;uniqueIndex:ux_event_products_event"`
	Code             string            `json:"code" gorm:"type:text;not null"`
	Name             string            `json:"name" gorm:"type:text;not null"`
	Description      *string           `json:"description,omitempty" gorm:"type:text"`
	GatewayProductID string            `json:"gateway_product_id" gorm:"type:text;not null"`
	ActivePriceID    string            `json:"active_price_id" gorm:"type:text;not null"`
	GatewayAccountID string            `json:"gateway_account_id" gorm:"type:text;not null"`
	UnitAmount       int64             `json:"unit_amount" gorm:"not null"`
	Currency         string            `json:"currency" gorm:"type:text;not null"`
	Metadata         datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt        time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time         `json:"updated_at" gorm:"not null"`
}

func (EventProduct) TableName() string { return "event_products" }
