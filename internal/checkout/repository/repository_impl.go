package repository

import (
	"context"

	"github.com/gatherhq/gatherpay/internal/checkout/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindBySession(ctx context.Context, db *gorm.DB, sessionID string) (*domain.CheckoutSession, error) {
	var item domain.CheckoutSession
	err := db.WithContext(ctx).Raw(
		`SELECT id, session_id, user_id, event_id, status, payment_intent_id,
			amount_total, currency, created_at, updated_at
		 FROM checkout_sessions
		 WHERE session_id = ?
		 LIMIT 1`,
		sessionID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.CheckoutSession) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO checkout_sessions (
			id, session_id, user_id, event_id, status, payment_intent_id,
			amount_total, currency, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO NOTHING`,
		session.ID,
		session.SessionID,
		session.UserID,
		session.EventID,
		session.Status,
		session.PaymentIntentID,
		session.AmountTotal,
		session.Currency,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Transition(ctx context.Context, db *gorm.DB, update domain.TransitionUpdate) (bool, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.CheckoutSession{}).
		Where("session_id = ? AND status = ?", update.SessionID, domain.StatusCreated)

	values := map[string]any{
		"status":     update.ToStatus,
		"updated_at": update.UpdatedAt,
	}
	if update.PaymentIntentID != nil {
		values["payment_intent_id"] = *update.PaymentIntentID
	}
	if update.AmountTotal != nil {
		values["amount_total"] = *update.AmountTotal
	}
	if update.Currency != nil {
		values["currency"] = *update.Currency
	}

	res := stmt.Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
