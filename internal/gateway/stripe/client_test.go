package stripe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatherhq/gatherpay/internal/gateway/domain"
	"github.com/gatherhq/gatherpay/internal/gateway/stripe"
)

func TestCreateAccountParsesID(t *testing.T) {
	var gotAuth, gotContentType, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/accounts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotType = r.PostFormValue("type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"acct_123"}`))
	}))
	defer srv.Close()

	client := stripe.NewClient(srv.URL, "sk_test", nil)
	accountID, err := client.CreateAccount(context.Background())
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if accountID != "acct_123" {
		t.Fatalf("expected acct_123, got %q", accountID)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("expected form content type, got %q", gotContentType)
	}
	if gotType != "express" {
		t.Fatalf("expected express account type, got %q", gotType)
	}
}

func TestListChargesSetsAccountHeader(t *testing.T) {
	created := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	var gotAccount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccount = r.Header.Get("Stripe-Account")
		if got := r.URL.Query().Get("limit"); got != "25" {
			t.Errorf("expected limit 25, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"ch_1","amount":2500,"status":"succeeded","currency":"usd","created":1772323200}]}`))
	}))
	defer srv.Close()

	client := stripe.NewClient(srv.URL, "sk_test", nil)
	charges, err := client.ListCharges(context.Background(), "acct_123", 25)
	if err != nil {
		t.Fatalf("list charges: %v", err)
	}

	if gotAccount != "acct_123" {
		t.Fatalf("expected Stripe-Account header, got %q", gotAccount)
	}
	if len(charges) != 1 {
		t.Fatalf("expected 1 charge, got %d", len(charges))
	}
	if charges[0].Currency != "USD" {
		t.Fatalf("expected normalized currency, got %q", charges[0].Currency)
	}
	if !charges[0].CreatedAt.Equal(created) {
		t.Fatalf("expected created %v, got %v", created, charges[0].CreatedAt)
	}
}

func TestErrorResponseMapsToGatewayUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"no such product"}}`))
	}))
	defer srv.Close()

	client := stripe.NewClient(srv.URL, "sk_test", nil)
	_, err := client.CreateProduct(context.Background(), "Gala", "")
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestMissingAPIKeyRejected(t *testing.T) {
	client := stripe.NewClient("https://gateway.test", "", nil)
	_, err := client.CreateAccount(context.Background())
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
