package repository

import (
	"context"
	"time"

	"github.com/gatherhq/gatherpay/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByHostUser(ctx context.Context, db *gorm.DB, hostUserID string) (*domain.ConnectedAccount, error) {
	var item domain.ConnectedAccount
	err := db.WithContext(ctx).Raw(
		`SELECT id, host_user_id, gateway_account_id, charges_enabled, created_at, updated_at
		 FROM connected_accounts
		 WHERE host_user_id = ?
		 LIMIT 1`,
		hostUserID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindByGatewayAccount(ctx context.Context, db *gorm.DB, gatewayAccountID string) (*domain.ConnectedAccount, error) {
	var item domain.ConnectedAccount
	err := db.WithContext(ctx).Raw(
		`SELECT id, host_user_id, gateway_account_id, charges_enabled, created_at, updated_at
		 FROM connected_accounts
		 WHERE gateway_account_id = ?
		 LIMIT 1`,
		gatewayAccountID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, account *domain.ConnectedAccount) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO connected_accounts (
			id, host_user_id, gateway_account_id, charges_enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (host_user_id) DO NOTHING`,
		account.ID,
		account.HostUserID,
		account.GatewayAccountID,
		account.ChargesEnabled,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkActive(ctx context.Context, db *gorm.DB, gatewayAccountID string, updatedAt time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE connected_accounts
		 SET charges_enabled = TRUE, updated_at = ?
		 WHERE gateway_account_id = ? AND charges_enabled = FALSE`,
		updatedAt,
		gatewayAccountID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
