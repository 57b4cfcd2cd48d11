package entitlement

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"lifeplan-server/internal/billing"
	"lifeplan-server/internal/domain"
)

// DefaultFreshnessWindow bounds how long a validated snapshot is trusted for
// billing-sensitive decisions before the provider is consulted again.
const DefaultFreshnessWindow = 60 * time.Second

// Resolver produces a best-effort-immediate, eventually-accurate entitlement
// view. Phase 1 reads the local profile replica; phase 2 revalidates against
// the payment provider and writes the result back to both the replica and the
// cache. Concurrent revalidations for the same account collapse into one
// provider call.
type Resolver struct {
	profiles domain.ProfileRepository
	billing  billing.Provider
	cache    Cache
	window   time.Duration
	logger   zerolog.Logger

	group singleflight.Group
	now   func() time.Time
}

func NewResolver(profiles domain.ProfileRepository, provider billing.Provider, cache Cache, window time.Duration, logger zerolog.Logger) *Resolver {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	return &Resolver{
		profiles: profiles,
		billing:  provider,
		cache:    cache,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// Window returns the configured freshness window.
func (r *Resolver) Window() time.Duration {
	return r.window
}

// Invalidate drops the cached snapshot for the account. Called at the
// session-lifecycle boundary and after billing commands.
func (r *Resolver) Invalidate(ctx context.Context, userID string) {
	r.cache.Invalidate(ctx, userID)
}

// Resolve returns the current entitlement snapshot for the account. A fresh
// cache hit skips the provider entirely. Revalidation failures are logged and
// the last known (possibly stale) state is served; a billing display must
// never hard-fail.
func (r *Resolver) Resolve(ctx context.Context, userID string) domain.EntitlementSnapshot {
	if snap, ok := r.cache.Read(ctx, userID); ok && snap.Fresh(r.now(), r.window) {
		return snap
	}

	var local domain.EntitlementSnapshot
	status, plan, err := r.profiles.Entitlement(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("entitlement: local replica read failed")
	} else {
		local = domain.EntitlementSnapshot{Tier: plan, Status: status}
	}

	v, err, _ := r.group.Do(userID, func() (any, error) {
		return r.revalidate(ctx, userID)
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("entitlement: revalidation failed, serving last known state")
		return local
	}
	return v.(domain.EntitlementSnapshot)
}

// Refresh invalidates the cached snapshot and resolves again. Used after any
// billing command so the divergence window closes immediately.
func (r *Resolver) Refresh(ctx context.Context, userID string) domain.EntitlementSnapshot {
	r.cache.Invalidate(ctx, userID)
	return r.Resolve(ctx, userID)
}

func (r *Resolver) revalidate(ctx context.Context, userID string) (domain.EntitlementSnapshot, error) {
	profile, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		return domain.EntitlementSnapshot{}, err
	}

	snap := domain.EntitlementSnapshot{Status: domain.StatusInactive, ObservedAt: r.now()}

	customerID, err := r.billing.FindCustomerByEmail(ctx, profile.Email)
	if err != nil {
		return domain.EntitlementSnapshot{}, err
	}
	if customerID != "" {
		subs, err := r.billing.ListSubscriptions(ctx, customerID)
		if err != nil {
			return domain.EntitlementSnapshot{}, err
		}
		if current, ok := pickCurrent(subs); ok {
			tier, exact := domain.TierFromProductID(current.ProductID)
			if !exact {
				r.logger.Warn().
					Str("user_id", userID).
					Str("product_id", current.ProductID).
					Msg("entitlement: unknown product id, granting basic tier")
			}
			snap.Tier = tier
			snap.Status = reportedStatus(current)
		}
	}

	if err := r.profiles.UpdateEntitlement(ctx, userID, snap.Status, snap.Tier); err != nil {
		// Replica write-back failure is non-fatal: the cache carries the
		// validated state and the next revalidation retries the write.
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("entitlement: replica write-back failed")
	}
	r.cache.Write(ctx, userID, snap)
	return snap, nil
}

// pickCurrent chooses the subscription that determines the entitlement:
// the first collectible one, else the first one at all.
func pickCurrent(subs []billing.Subscription) (billing.Subscription, bool) {
	for _, sub := range subs {
		if sub.Active() {
			return sub, true
		}
	}
	if len(subs) > 0 {
		return subs[0], true
	}
	return billing.Subscription{}, false
}

func reportedStatus(sub billing.Subscription) string {
	if sub.Paused {
		return "paused"
	}
	if sub.Status == "active" {
		return domain.StatusActive
	}
	if sub.Status == "" {
		return domain.StatusInactive
	}
	return sub.Status
}
