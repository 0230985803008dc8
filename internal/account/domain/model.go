package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ConnectedAccount is a host's registration with the payment gateway. Rows
// are never deleted and charges_enabled only ever moves false -> true.
type ConnectedAccount struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	HostUserID       string       `json:"host_user_id" gorm:"type:text;not null;uniqueIndex:ux_connected_accounts_host_user"`
	GatewayAccountID string       `json:"gateway_account_id" gorm:"type:text;not null;index"`
	ChargesEnabled   bool         `json:"charges_enabled" gorm:"not null;default:false"`
	CreatedAt        time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time    `json:"updated_at" gorm:"not null"`
}

func (ConnectedAccount) TableName() string { return "connected_accounts" }
