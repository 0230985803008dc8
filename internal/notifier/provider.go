package notifier

import "context"

// Provider is the black-box notification collaborator. Delivery is always
// fire-and-forget from the caller's point of view.
type Provider interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}
