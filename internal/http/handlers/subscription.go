package handlers

import (
	"encoding/json"
	"net/http"

	"lifeplan-server/internal/domain"
)

type checkSubscriptionResponse struct {
	SubscriptionStatus string      `json:"subscription_status"`
	SubscriptionPlan   domain.Tier `json:"subscription_plan"`
	ProductID          string      `json:"product_id,omitempty"`
	IsActive           bool        `json:"is_active"`
	IsPremium          bool        `json:"is_premium"`
	HasAIAccess        bool        `json:"has_ai_access"`
}

// CheckSubscription resolves the caller's entitlement, revalidating against
// the payment provider when the cached snapshot is stale.
func (a *App) CheckSubscription(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	snap := a.Resolver.Resolve(r.Context(), userID)
	cfg, _ := domain.ConfigFor(snap.Tier)
	a.json(w, http.StatusOK, checkSubscriptionResponse{
		SubscriptionStatus: snap.Status,
		SubscriptionPlan:   snap.Tier,
		ProductID:          cfg.ProductID,
		IsActive:           snap.IsActive(),
		IsPremium:          snap.IsPremium(),
		HasAIAccess:        snap.HasAIAccess(),
	})
}

type pauseRequest struct {
	Action string `json:"action"`
}

type pauseResult struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// PauseSubscription applies a pause or resume transition to every
// active/paused subscription owned by the caller's billing customer. Zero
// matching subscriptions is a successful no-op.
func (a *App) PauseSubscription(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req pauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	action := req.Action
	if action == "" {
		action = "pause"
	}
	if action != "pause" && action != "resume" {
		a.error(w, http.StatusBadRequest, "bad_request", "action must be 'pause' or 'resume'")
		return
	}

	profile, err := a.Profiles.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "profile not found")
		return
	}

	customerID, err := a.Billing.FindCustomerByEmail(r.Context(), profile.Email)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("pause: customer lookup failed")
		a.error(w, http.StatusBadGateway, "provider_error", "payment provider unavailable")
		return
	}

	results := []pauseResult{}
	if customerID != "" {
		subs, err := a.Billing.ListSubscriptions(r.Context(), customerID)
		if err != nil {
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("pause: subscription list failed")
			a.error(w, http.StatusBadGateway, "provider_error", "payment provider unavailable")
			return
		}
		for _, sub := range subs {
			if sub.Status != "active" && !sub.Paused {
				continue
			}
			var actErr error
			if action == "pause" {
				actErr = a.Billing.PauseSubscription(r.Context(), sub.ID)
			} else {
				actErr = a.Billing.ResumeSubscription(r.Context(), sub.ID)
			}
			if actErr != nil {
				a.Logger.Error().Err(actErr).Str("subscription_id", sub.ID).Msg("pause: transition failed")
				a.error(w, http.StatusBadGateway, "provider_error", "failed to update subscription")
				return
			}
			results = append(results, pauseResult{ID: sub.ID, Action: action})
		}
	}

	// Write the resulting state back to the local replica and drop the cached
	// entitlement so the next read revalidates.
	if len(results) > 0 {
		status := domain.StatusActive
		if action == "pause" {
			status = "paused"
		}
		if err := a.Profiles.UpdateEntitlement(r.Context(), userID, status, profile.SubscriptionPlan); err != nil {
			a.Logger.Warn().Err(err).Str("user_id", userID).Msg("pause: replica write-back failed")
		}
	}
	a.Resolver.Invalidate(r.Context(), userID)

	message := "no active subscriptions to update"
	if len(results) > 0 {
		message = "subscriptions updated"
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"results": results,
	})
}

// CanCreatePlan is the server-side creation gate: it combines the resolved
// entitlement with the caller's current plan counts.
func (a *App) CanCreatePlan(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	rt, ok := domain.ParseResourceType(r.URL.Query().Get("type"))
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "type must be one of individual, familiar, filho")
		return
	}

	counts, err := a.Counter.CountByType(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("can-create: count query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load plan counts")
		return
	}

	snap := a.Resolver.Resolve(r.Context(), userID)
	tier := snap.Tier
	if !snap.IsActive() {
		tier = domain.TierNone
	}

	decision := domain.CanCreate(tier, rt, counts)
	resp := map[string]any{"allowed": decision.Allowed}
	if decision.Reason != "" {
		resp["reason"] = decision.Reason
	}
	a.json(w, http.StatusOK, resp)
}
