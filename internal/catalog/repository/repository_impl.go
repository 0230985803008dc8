package repository

import (
	"context"
	"time"

	"github.com/gatherhq/gatherpay/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByEvent(ctx context.Context, db *gorm.DB, eventID string) (*domain.EventProduct, error) {
	var item domain.EventProduct
	err := db.WithContext(ctx).Raw(
		`SELECT id, event_id, code, name, description, gateway_product_id, active_price_id,
			gateway_account_id, unit_amount, currency, metadata, created_at, updated_at
		 FROM event_products
		 WHERE event_id = ?
		 LIMIT 1`,
		eventID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, product *domain.EventProduct) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO event_products (
			id, event_id, code, name, description, gateway_product_id, active_price_id,
			gateway_account_id, unit_amount, currency, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			description = excluded.description,
			gateway_product_id = excluded.gateway_product_id,
			active_price_id = excluded.active_price_id,
			gateway_account_id = excluded.gateway_account_id,
			unit_amount = excluded.unit_amount,
			currency = excluded.currency,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		product.ID,
		product.EventID,
		product.Code,
		product.Name,
		product.Description,
		product.GatewayProductID,
		product.ActivePriceID,
		product.GatewayAccountID,
		product.UnitAmount,
		product.Currency,
		product.Metadata,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) SwapActivePrice(ctx context.Context, db *gorm.DB, eventID, priceID string, unitAmount int64, updatedAt time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE event_products
		 SET active_price_id = ?, unit_amount = ?, updated_at = ?
		 WHERE event_id = ?`,
		priceID,
		unitAmount,
		updatedAt,
		eventID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
