package billing

import "context"

// Subscription is the provider-side view of one subscription.
type Subscription struct {
	ID        string
	Status    string
	ProductID string
	Paused    bool
}

// Active reports whether the subscription is currently collectible.
func (s Subscription) Active() bool {
	return s.Status == "active" && !s.Paused
}

// Provider abstracts the external payment platform. All calls are server-side
// only; the provider remains the source of truth for billing state.
type Provider interface {
	// FindCustomerByEmail returns the provider customer ID for the e-mail,
	// or "" when the e-mail has never checked out.
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error)
	// PauseSubscription marks future payments uncollectible.
	PauseSubscription(ctx context.Context, subscriptionID string) error
	// ResumeSubscription clears the pause marker.
	ResumeSubscription(ctx context.Context, subscriptionID string) error
}
