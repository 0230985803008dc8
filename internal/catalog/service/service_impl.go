package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gatherhq/gatherpay/internal/catalog/domain"
	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Gateway gatewaydomain.Client
	Repo    domain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	gateway gatewaydomain.Client
	repo    domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("catalog.service"),
		genID:   p.GenID,
		gateway: p.Gateway,
		repo:    p.Repo,
	}
}

const defaultCurrency = "USD"

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.CreateProductResponse, error) {
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		return nil, domain.ErrInvalidEvent
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	accountID := strings.TrimSpace(req.GatewayAccountID)
	if accountID == "" {
		return nil, domain.ErrInvalidAccount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	description := strings.TrimSpace(req.Description)
	unitAmount := toMinorUnits(req.Price)

	// Gateway objects first; the local upsert is the serialization point.
	productID, err := s.gateway.CreateProduct(ctx, name, description)
	if err != nil {
		return nil, err
	}
	priceID, err := s.gateway.CreatePrice(ctx, productID, unitAmount, currency)
	if err != nil {
		return nil, err
	}

	displaced, err := s.repo.FindByEvent(ctx, s.db, eventID)
	if err != nil {
		return nil, err
	}

	var descriptionPtr *string
	if description != "" {
		descriptionPtr = &description
	}

	now := time.Now().UTC()
	record := &domain.EventProduct{
		ID:               s.genID.Generate(),
		EventID:          eventID,
		Code:             slug.Make(name),
		Name:             name,
		Description:      descriptionPtr,
		GatewayProductID: productID,
		ActivePriceID:    priceID,
		GatewayAccountID: accountID,
		UnitAmount:       unitAmount,
		Currency:         currency,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Metadata != nil {
		record.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Upsert(ctx, s.db, record); err != nil {
		s.log.Error("gateway product created but row not persisted",
			zap.String("event_id", eventID),
			zap.String("gateway_product_id", productID),
			zap.String("gateway_price_id", priceID),
			zap.Error(err),
		)
		return nil, err
	}

	if displaced != nil && displaced.GatewayProductID != productID {
		s.log.Warn("event product replaced, previous gateway objects orphaned",
			zap.String("event_id", eventID),
			zap.String("orphaned_gateway_product_id", displaced.GatewayProductID),
			zap.String("orphaned_gateway_price_id", displaced.ActivePriceID),
		)
	}

	return &domain.CreateProductResponse{ProductID: productID, PriceID: priceID}, nil
}

func (s *Service) DeactivatePrice(ctx context.Context, priceID string) error {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return domain.ErrInvalidPrice
	}
	return s.gateway.DeactivatePrice(ctx, priceID)
}

func (s *Service) ReplacePrice(ctx context.Context, eventID string, price float64) (string, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return "", domain.ErrInvalidEvent
	}
	if price < 0 {
		return "", domain.ErrInvalidPrice
	}

	existing, err := s.repo.FindByEvent(ctx, s.db, eventID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", domain.ErrNotFound
	}

	// Retire the old price first; the pointer stays on it until the
	// replacement exists so the event never lacks an active price.
	if err := s.gateway.DeactivatePrice(ctx, existing.ActivePriceID); err != nil {
		return "", err
	}

	unitAmount := toMinorUnits(price)
	priceID, err := s.gateway.CreatePrice(ctx, existing.GatewayProductID, unitAmount, existing.Currency)
	if err != nil {
		return "", err
	}

	swapped, err := s.repo.SwapActivePrice(ctx, s.db, eventID, priceID, unitAmount, time.Now().UTC())
	if err != nil {
		s.log.Error("replacement price created but pointer not persisted",
			zap.String("event_id", eventID),
			zap.String("gateway_price_id", priceID),
			zap.Error(err),
		)
		return "", err
	}
	if !swapped {
		return "", domain.ErrNotFound
	}

	return priceID, nil
}

func (s *Service) GetByEvent(ctx context.Context, eventID string) (*domain.EventProduct, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, domain.ErrInvalidEvent
	}
	item, err := s.repo.FindByEvent(ctx, s.db, eventID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// toMinorUnits converts a major-unit price to the smallest currency unit,
// rounding halves up.
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
