package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	accountdomain "github.com/gatherhq/gatherpay/internal/account/domain"
	catalogdomain "github.com/gatherhq/gatherpay/internal/catalog/domain"
	checkoutdomain "github.com/gatherhq/gatherpay/internal/checkout/domain"
	"github.com/gatherhq/gatherpay/internal/config"
	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	revenuedomain "github.com/gatherhq/gatherpay/internal/revenue/domain"
	webhookdomain "github.com/gatherhq/gatherpay/internal/webhook/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeAccountService struct {
	ensureCalls int
	ensureErr   error
}

func (f *fakeAccountService) EnsureAccount(ctx context.Context, hostUserID string) (string, error) {
	f.ensureCalls++
	if f.ensureErr != nil {
		return "", f.ensureErr
	}
	return "acct_1", nil
}

func (f *fakeAccountService) OnboardingLink(ctx context.Context, gatewayAccountID, refreshURL, returnURL string) (string, error) {
	return "https://gateway.test/onboarding/" + gatewayAccountID, nil
}

func (f *fakeAccountService) Activate(ctx context.Context, gatewayAccountID string) error {
	return nil
}

type fakeCatalogService struct{}

func (f *fakeCatalogService) CreateProduct(ctx context.Context, req catalogdomain.CreateProductRequest) (*catalogdomain.CreateProductResponse, error) {
	if req.Name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	return &catalogdomain.CreateProductResponse{ProductID: "prod_1", PriceID: "price_1"}, nil
}

func (f *fakeCatalogService) DeactivatePrice(ctx context.Context, priceID string) error {
	return nil
}

func (f *fakeCatalogService) ReplacePrice(ctx context.Context, eventID string, price float64) (string, error) {
	if eventID == "evt_missing" {
		return "", catalogdomain.ErrNotFound
	}
	return "price_2", nil
}

func (f *fakeCatalogService) GetByEvent(ctx context.Context, eventID string) (*catalogdomain.EventProduct, error) {
	return nil, catalogdomain.ErrNotFound
}

type fakeCheckoutService struct{}

func (f *fakeCheckoutService) Create(ctx context.Context, req checkoutdomain.CreateSessionRequest) error {
	if req.SessionID == "" {
		return checkoutdomain.ErrInvalidSession
	}
	return nil
}

func (f *fakeCheckoutService) MarkPaid(ctx context.Context, sessionID, paymentIntentID string, amountTotal int64, currency string) (bool, error) {
	return true, nil
}

func (f *fakeCheckoutService) MarkExpired(ctx context.Context, sessionID string) (bool, error) {
	return true, nil
}

func (f *fakeCheckoutService) Get(ctx context.Context, sessionID string) (*checkoutdomain.CheckoutSession, error) {
	return nil, checkoutdomain.ErrSessionNotFound
}

type fakeWebhookService struct {
	err error
}

func (f *fakeWebhookService) Handle(ctx context.Context, payload []byte, headers http.Header) error {
	return f.err
}

type fakeRevenueService struct{}

func (f *fakeRevenueService) Overview(ctx context.Context, accountID string) (*revenuedomain.Overview, error) {
	if accountID == "" {
		return nil, revenuedomain.ErrInvalidAccount
	}
	return &revenuedomain.Overview{
		Analytics: revenuedomain.Analytics{
			AllTime:  revenuedomain.Bucket{Revenue: 1000, PlatformFees: 29, TicketsSold: 1},
			Currency: "USD",
		},
		Payments: []gatewaydomain.Charge{{ID: "ch_1", Amount: 1000, Status: "succeeded", Currency: "USD"}},
	}, nil
}

func newTestServer(webhookErr error) (*Server, *fakeAccountService) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	accountSvc := &fakeAccountService{}
	srv := &Server{
		engine:      engine,
		cfg:         config.Config{},
		log:         zap.NewNop(),
		accountSvc:  accountSvc,
		catalogSvc:  &fakeCatalogService{},
		checkoutSvc: &fakeCheckoutService{},
		webhookSvc:  &fakeWebhookService{err: webhookErr},
		revenueSvc:  &fakeRevenueService{},
	}
	srv.RegisterPaymentRoutes()
	return srv, accountSvc
}

func performRequest(srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	return rec
}

func TestEnsureAccountEndpoint(t *testing.T) {
	srv, accountSvc := newTestServer(nil)

	rec := performRequest(srv, http.MethodPost, "/api/payments/accounts", []byte(`{"host_user_id":"host_1"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success          bool   `json:"success"`
		GatewayAccountID string `json:"gateway_account_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.GatewayAccountID != "acct_1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if accountSvc.ensureCalls != 1 {
		t.Fatalf("expected 1 service call, got %d", accountSvc.ensureCalls)
	}
}

func TestEnsureAccountValidationMapsTo400(t *testing.T) {
	srv, accountSvc := newTestServer(nil)
	accountSvc.ensureErr = accountdomain.ErrInvalidHostUser

	rec := performRequest(srv, http.MethodPost, "/api/payments/accounts", []byte(`{"host_user_id":""}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWebhookEndpointAcknowledges(t *testing.T) {
	srv, _ := newTestServer(nil)

	rec := performRequest(srv, http.MethodPost, "/api/payments/webhooks", []byte(`{"id":"evt_1"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["received"] {
		t.Fatalf("expected received true, got %v", resp)
	}
}

func TestWebhookEndpointRejectsBadSignature(t *testing.T) {
	srv, _ := newTestServer(webhookdomain.ErrInvalidSignature)

	rec := performRequest(srv, http.MethodPost, "/api/payments/webhooks", []byte(`{"id":"evt_1"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("signature")) {
		t.Fatalf("response must not explain the failure: %s", rec.Body.String())
	}
}

func TestReplacePriceUnknownEventMapsTo404(t *testing.T) {
	srv, _ := newTestServer(nil)

	rec := performRequest(srv, http.MethodPut, "/api/payments/products/evt_missing/price", []byte(`{"price":30}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRevenueEndpointShape(t *testing.T) {
	srv, _ := newTestServer(nil)

	rec := performRequest(srv, http.MethodGet, "/api/payments/revenue/acct_1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Analytics revenuedomain.Analytics `json:"analytics"`
		Payments  []gatewaydomain.Charge  `json:"payments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Analytics.AllTime.Revenue != 1000 || len(resp.Payments) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
