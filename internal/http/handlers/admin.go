package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lifeplan-server/internal/domain"
	"lifeplan-server/internal/sqlinline"
)

type adminUpdateRequest struct {
	TargetUserID string `json:"target_user_id"`
	NewTier      string `json:"new_tier"`
}

// AdminUpdateSubscription writes status=active and the requested tier directly
// to the target profile, bypassing the payment provider. This is manual
// support tooling, not a sync mechanism: the replica diverges from real
// billing state until the next authoritative revalidation notices.
func (a *App) AdminUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	callerID := a.currentUserID(r)
	if callerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	// Privilege is established by a server-side role query, never from the
	// request payload.
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectProfileRole, callerID)
	var role string
	if err := row.Scan(&role); err != nil {
		a.error(w, http.StatusForbidden, "forbidden", "admin privilege required")
		return
	}
	if domain.UserRole(role) != domain.UserRoleAdmin {
		a.error(w, http.StatusForbidden, "forbidden", "admin privilege required")
		return
	}

	var req adminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.TargetUserID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "target_user_id required")
		return
	}
	tier := domain.ParseTier(req.NewTier)
	if tier == domain.TierNone {
		a.error(w, http.StatusBadRequest, "bad_request", "new_tier must be 'basic' or 'premium'")
		return
	}

	target, err := a.Profiles.GetByID(r.Context(), req.TargetUserID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "target user not found")
		return
	}

	if err := a.Profiles.UpdateEntitlement(r.Context(), target.ID, domain.StatusActive, tier); err != nil {
		a.Logger.Error().Err(err).Str("target_user_id", target.ID).Msg("admin: entitlement write failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update subscription")
		return
	}
	a.Resolver.Invalidate(r.Context(), target.ID)

	a.Logger.Info().
		Str("admin_id", callerID).
		Str("target_user_id", target.ID).
		Str("new_tier", string(tier)).
		Msg("admin: subscription override applied")

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("subscription for %s set to %s", target.Email, tier),
	})
}
