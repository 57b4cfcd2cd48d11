package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Profile is the locally replicated account record. The payment provider is
// the source of truth for SubscriptionStatus and SubscriptionPlan; the profile
// columns are an eventually-consistent copy bounded by the entitlement
// freshness window.
type Profile struct {
	ID                 string
	Email              string
	FullName           string
	Role               UserRole
	BirthDate          *time.Time
	SubscriptionStatus string
	SubscriptionPlan   Tier
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAdmin reports whether the profile carries the elevated support role.
func (p Profile) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}
