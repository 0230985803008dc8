package domain

import (
	"context"
	"errors"
)

type Service interface {
	// EnsureAccount returns the gateway account for hostUserID, creating
	// one on the gateway only when no local record exists. Repeated calls
	// return the same gateway account id.
	EnsureAccount(ctx context.Context, hostUserID string) (string, error)

	// OnboardingLink asks the gateway for a fresh onboarding URL. Local
	// state is never touched.
	OnboardingLink(ctx context.Context, gatewayAccountID, refreshURL, returnURL string) (string, error)

	// Activate marks the account as able to take charges. Already-active
	// and unknown accounts are both no-ops; only a verified webhook may
	// call this.
	Activate(ctx context.Context, gatewayAccountID string) error
}

var (
	ErrInvalidHostUser = errors.New("invalid_host_user")
	ErrInvalidAccount  = errors.New("invalid_account")
	ErrAccountNotFound = errors.New("account_not_found")
)
