package domain

import "time"

// Subscription statuses as stored on the profile replica. The payment
// provider may report finer-grained states (past_due, canceled, ...); anything
// that is not active is displayed as-is and gates like inactive.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// EntitlementSnapshot is the resolved tier/status pair for one account at one
// point in time. ObservedAt is set only by authoritative revalidation; local
// replica reads produce snapshots with a zero ObservedAt so they never count
// as validated.
type EntitlementSnapshot struct {
	Tier       Tier      `json:"tier"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
}

// Fresh reports whether the snapshot was validated within the freshness
// window ending at now.
func (s EntitlementSnapshot) Fresh(now time.Time, window time.Duration) bool {
	if s.ObservedAt.IsZero() {
		return false
	}
	return now.Sub(s.ObservedAt) < window
}

// IsActive reports whether the subscription is currently collectible.
func (s EntitlementSnapshot) IsActive() bool {
	return s.Status == StatusActive
}

// IsPremium reports whether the account is on the premium tier.
func (s EntitlementSnapshot) IsPremium() bool {
	return s.Tier == TierPremium
}

// HasAIAccess reports whether the tier bundles AI summaries. Derived from the
// snapshot on every call; never cached independently.
func (s EntitlementSnapshot) HasAIAccess() bool {
	return HasFeature(s.Tier, FeatureAISummary)
}
