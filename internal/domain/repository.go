package domain

import "context"

// ProfileRepository defines the local-replica access the entitlement resolver
// and the billing endpoints need.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	// Entitlement reads only the replicated subscription columns.
	Entitlement(ctx context.Context, id string) (status string, plan Tier, err error)
	// UpdateEntitlement writes the subscription columns back after an
	// authoritative revalidation or a billing command.
	UpdateEntitlement(ctx context.Context, id string, status string, plan Tier) error
}

// PlanCounter supplies the current per-type plan counts for creation gating.
type PlanCounter interface {
	CountByType(ctx context.Context, userID string) (Counts, error)
}
