package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/gatherhq/gatherpay/internal/catalog/domain"
	catalogrepo "github.com/gatherhq/gatherpay/internal/catalog/repository"
	catalogservice "github.com/gatherhq/gatherpay/internal/catalog/service"
	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeGateway struct {
	productSeq int
	priceSeq   int

	failCreateProduct bool
	failCreatePrice   bool
	failDeactivate    bool

	deactivated []string
	lastAmount  int64
	lastCurency string
}

func (g *fakeGateway) CreateAccount(ctx context.Context) (string, error) {
	return "acct_1", nil
}

func (g *fakeGateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	return "https://gateway.test/onboarding/" + accountID, nil
}

func (g *fakeGateway) CreateProduct(ctx context.Context, name, description string) (string, error) {
	if g.failCreateProduct {
		return "", fmt.Errorf("%w: connect refused", gatewaydomain.ErrGatewayUnavailable)
	}
	g.productSeq++
	return fmt.Sprintf("prod_%d", g.productSeq), nil
}

func (g *fakeGateway) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	if g.failCreatePrice {
		return "", fmt.Errorf("%w: connect refused", gatewaydomain.ErrGatewayUnavailable)
	}
	g.priceSeq++
	g.lastAmount = unitAmount
	g.lastCurency = currency
	return fmt.Sprintf("price_%d", g.priceSeq), nil
}

func (g *fakeGateway) DeactivatePrice(ctx context.Context, priceID string) error {
	if g.failDeactivate {
		return fmt.Errorf("%w: connect refused", gatewaydomain.ErrGatewayUnavailable)
	}
	g.deactivated = append(g.deactivated, priceID)
	return nil
}

func (g *fakeGateway) ListCharges(ctx context.Context, accountID string, limit int) ([]gatewaydomain.Charge, error) {
	return nil, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE event_products (
			id BIGINT PRIMARY KEY,
			event_id TEXT NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			gateway_product_id TEXT NOT NULL,
			active_price_id TEXT NOT NULL,
			gateway_account_id TEXT NOT NULL,
			unit_amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_event_products_event ON event_products(event_id)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

func newService(t *testing.T, db *gorm.DB, gateway *fakeGateway) catalogdomain.Service {
	t.Helper()

	node, err := snowflake.NewNode(12)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return catalogservice.NewService(catalogservice.Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Gateway: gateway,
		Repo:    catalogrepo.Provide(),
	})
}

func TestCreateProductPersistsActivePrice(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	svc := newService(t, db, gateway)

	resp, err := svc.CreateProduct(ctx, catalogdomain.CreateProductRequest{
		EventID:          "evt_1",
		Name:             "Summer Gala",
		Description:      "General admission",
		Price:            25.00,
		GatewayAccountID: "acct_1",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	stored, err := svc.GetByEvent(ctx, "evt_1")
	if err != nil {
		t.Fatalf("get by event: %v", err)
	}
	if stored.ActivePriceID != resp.PriceID {
		t.Fatalf("expected active price %q, got %q", resp.PriceID, stored.ActivePriceID)
	}
	if stored.UnitAmount != 2500 {
		t.Fatalf("expected unit amount 2500, got %d", stored.UnitAmount)
	}
	if stored.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %q", stored.Currency)
	}
	if stored.Code != "summer-gala" {
		t.Fatalf("expected slugged code, got %q", stored.Code)
	}
}

func TestCreateProductRoundsHalfUp(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	svc := newService(t, db, gateway)

	_, err := svc.CreateProduct(ctx, catalogdomain.CreateProductRequest{
		EventID:          "evt_1",
		Name:             "Workshop",
		Price:            10.005,
		GatewayAccountID: "acct_1",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if gateway.lastAmount != 1001 {
		t.Fatalf("expected 1001 minor units, got %d", gateway.lastAmount)
	}
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	svc := newService(t, db, gateway)

	cases := []struct {
		name string
		req  catalogdomain.CreateProductRequest
		want error
	}{
		{"missing event", catalogdomain.CreateProductRequest{Name: "x", Price: 1, GatewayAccountID: "acct_1"}, catalogdomain.ErrInvalidEvent},
		{"missing name", catalogdomain.CreateProductRequest{EventID: "evt_1", Price: 1, GatewayAccountID: "acct_1"}, catalogdomain.ErrInvalidName},
		{"negative price", catalogdomain.CreateProductRequest{EventID: "evt_1", Name: "x", Price: -1, GatewayAccountID: "acct_1"}, catalogdomain.ErrInvalidPrice},
		{"missing account", catalogdomain.CreateProductRequest{EventID: "evt_1", Name: "x", Price: 1}, catalogdomain.ErrInvalidAccount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if gateway.productSeq != 0 {
		t.Fatalf("expected no gateway calls, got %d", gateway.productSeq)
	}
}

func TestCreateProductGatewayFailureLeavesNoState(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gateway := &fakeGateway{failCreatePrice: true}
	svc := newService(t, db, gateway)

	_, err := svc.CreateProduct(ctx, catalogdomain.CreateProductRequest{
		EventID:          "evt_1",
		Name:             "Summer Gala",
		Price:            25.00,
		GatewayAccountID: "acct_1",
	})
	if !errors.Is(err, gatewaydomain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM event_products`).Scan(&count).Error; err != nil {
		t.Fatalf("query count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows, got %d", count)
	}
}

func TestDeactivatePriceKeepsRowAndPointer(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	svc := newService(t, db, gateway)

	resp, err := svc.CreateProduct(ctx, catalogdomain.CreateProductRequest{
		EventID:          "evt_1",
		Name:             "Summer Gala",
		Price:            25.00,
		GatewayAccountID: "acct_1",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := svc.DeactivatePrice(ctx, resp.PriceID); err != nil {
		t.Fatalf("deactivate price: %v", err)
	}

	stored, err := svc.GetByEvent(ctx, "evt_1")
	if err != nil {
		t.Fatalf("get by event: %v", err)
	}
	if stored.ActivePriceID != resp.PriceID {
		t.Fatalf("pointer should be untouched, got %q", stored.ActivePriceID)
	}
	if len(gateway.deactivated) != 1 || gateway.deactivated[0] != resp.PriceID {
		t.Fatalf("expected gateway deactivation of %q, got %v", resp.PriceID, gateway.deactivated)
	}
}

func TestReplacePriceRetiresOldAndSwapsPointer(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	svc := newService(t, db, gateway)

	resp, err := svc.CreateProduct(ctx, catalogdomain.CreateProductRequest{
		EventID:          "evt_1",
		Name:             "Summer Gala",
		Price:            25.00,
		GatewayAccountID: "acct_1",
		Currency:         "eur",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newPriceID, err := svc.ReplacePrice(ctx, "evt_1", 30.00)
	if err != nil {
		t.Fatalf("replace price: %v", err)
	}
	if newPriceID == resp.PriceID {
		t.Fatal("expected a fresh price id")
	}

	stored, err := svc.GetByEvent(ctx, "evt_1")
	if err != nil {
		t.Fatalf("get by event: %v", err)
	}
	if stored.ActivePriceID != newPriceID {
		t.Fatalf("expected pointer swapped to %q, got %q", newPriceID, stored.ActivePriceID)
	}
	if stored.UnitAmount != 3000 {
		t.Fatalf("expected unit amount 3000, got %d", stored.UnitAmount)
	}
	if len(gateway.deactivated) != 1 || gateway.deactivated[0] != resp.PriceID {
		t.Fatalf("expected old price retired, got %v", gateway.deactivated)
	}
	if gateway.lastCurency != "EUR" {
		t.Fatalf("replacement should reuse the stored currency, got %q", gateway.lastCurency)
	}
}

func TestReplacePriceUnknownEvent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	svc := newService(t, db, gateway)

	_, err := svc.ReplacePrice(ctx, "evt_missing", 30.00)
	if !errors.Is(err, catalogdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(gateway.deactivated) != 0 {
		t.Fatalf("expected no gateway deactivation, got %v", gateway.deactivated)
	}
}
