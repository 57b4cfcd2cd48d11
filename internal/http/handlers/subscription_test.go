package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lifeplan-server/internal/billing"
	"lifeplan-server/internal/domain"
	"lifeplan-server/internal/entitlement"
	"lifeplan-server/internal/middleware"
)

func newTestApp(sql *stubSQL, profiles *stubProfiles, provider *stubProvider, counter *stubCounter) *App {
	resolver := entitlement.NewResolver(profiles, provider, entitlement.NewMemoryCache(), time.Minute, zerolog.Nop())
	return &App{
		SQL:      sql,
		Logger:   zerolog.Nop(),
		Billing:  provider,
		Resolver: resolver,
		Profiles: profiles,
		Counter:  counter,
	}
}

func authedRequest(method, target, body, userID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestPauseSubscriptionRequiresAuth(t *testing.T) {
	app := newTestApp(&stubSQL{}, &stubProfiles{}, &stubProvider{}, &stubCounter{})

	w := httptest.NewRecorder()
	app.PauseSubscription(w, httptest.NewRequest(http.MethodPost, "/v1/subscription/pause", strings.NewReader(`{}`)))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestPauseSubscriptionRejectsUnknownAction(t *testing.T) {
	profiles := &stubProfiles{profile: &domain.Profile{ID: "user-1", Email: "ana@example.com"}}
	app := newTestApp(&stubSQL{}, profiles, &stubProvider{}, &stubCounter{})

	w := httptest.NewRecorder()
	app.PauseSubscription(w, authedRequest(http.MethodPost, "/v1/subscription/pause", `{"action":"cancel"}`, "user-1"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPauseSubscriptionWithNoSubscriptionsIsNoOp(t *testing.T) {
	profiles := &stubProfiles{
		profile:   &domain.Profile{ID: "user-1", Email: "ana@example.com", SubscriptionPlan: domain.TierBasic},
		entStatus: domain.StatusActive,
		entPlan:   domain.TierBasic,
	}
	provider := &stubProvider{customerID: "cus_1"}
	app := newTestApp(&stubSQL{}, profiles, provider, &stubCounter{})

	w := httptest.NewRecorder()
	app.PauseSubscription(w, authedRequest(http.MethodPost, "/v1/subscription/pause", `{"action":"pause"}`, "user-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	results, ok := body["results"].([]any)
	if !ok || len(results) != 0 {
		t.Errorf("results = %v, want empty array", body["results"])
	}
	if len(profiles.updates) != 0 {
		t.Errorf("replica updated on no-op: %+v", profiles.updates)
	}
}

func TestPauseSubscriptionPausesActiveAndPausedOnly(t *testing.T) {
	profiles := &stubProfiles{
		profile:   &domain.Profile{ID: "user-1", Email: "ana@example.com", SubscriptionPlan: domain.TierPremium},
		entStatus: domain.StatusActive,
		entPlan:   domain.TierPremium,
	}
	provider := &stubProvider{
		customerID: "cus_1",
		subs: []billing.Subscription{
			{ID: "sub_active", Status: "active"},
			{ID: "sub_canceled", Status: "canceled"},
			{ID: "sub_paused", Status: "active", Paused: true},
		},
	}
	app := newTestApp(&stubSQL{}, profiles, provider, &stubCounter{})

	w := httptest.NewRecorder()
	app.PauseSubscription(w, authedRequest(http.MethodPost, "/v1/subscription/pause", `{"action":"pause"}`, "user-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	if len(provider.paused) != 2 {
		t.Fatalf("paused = %v, want sub_active and sub_paused", provider.paused)
	}
	for _, id := range provider.paused {
		if id == "sub_canceled" {
			t.Errorf("canceled subscription was transitioned")
		}
	}
	if len(profiles.updates) != 1 {
		t.Fatalf("updates = %+v, want one replica write", profiles.updates)
	}
	if got := profiles.updates[0]; got.Status != "paused" || got.Plan != domain.TierPremium {
		t.Errorf("replica write = %+v, want status=paused plan=premium", got)
	}
}

func TestPauseSubscriptionResumeAction(t *testing.T) {
	profiles := &stubProfiles{
		profile: &domain.Profile{ID: "user-1", Email: "ana@example.com", SubscriptionPlan: domain.TierBasic},
	}
	provider := &stubProvider{
		customerID: "cus_1",
		subs: []billing.Subscription{
			{ID: "sub_paused", Status: "active", Paused: true},
		},
	}
	app := newTestApp(&stubSQL{}, profiles, provider, &stubCounter{})

	w := httptest.NewRecorder()
	app.PauseSubscription(w, authedRequest(http.MethodPost, "/v1/subscription/pause", `{"action":"resume"}`, "user-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(provider.resumed) != 1 || provider.resumed[0] != "sub_paused" {
		t.Errorf("resumed = %v, want [sub_paused]", provider.resumed)
	}
	if len(profiles.updates) != 1 || profiles.updates[0].Status != domain.StatusActive {
		t.Errorf("updates = %+v, want one write with status=active", profiles.updates)
	}
}

func TestPauseSubscriptionProviderFailure(t *testing.T) {
	profiles := &stubProfiles{profile: &domain.Profile{ID: "user-1", Email: "ana@example.com"}}
	provider := &stubProvider{findErr: errors.New("stripe down")}
	app := newTestApp(&stubSQL{}, profiles, provider, &stubCounter{})

	w := httptest.NewRecorder()
	app.PauseSubscription(w, authedRequest(http.MethodPost, "/v1/subscription/pause", `{}`, "user-1"))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestCheckSubscriptionResolvesEntitlement(t *testing.T) {
	profiles := &stubProfiles{
		profile:   &domain.Profile{ID: "user-1", Email: "ana@example.com"},
		entStatus: domain.StatusActive,
		entPlan:   domain.TierPremium,
	}
	provider := &stubProvider{
		customerID: "cus_1",
		subs: []billing.Subscription{
			{ID: "sub_1", Status: "active", ProductID: "prod_Tbw7tVZDkHnrh2"},
		},
	}
	app := newTestApp(&stubSQL{}, profiles, provider, &stubCounter{})

	w := httptest.NewRecorder()
	app.CheckSubscription(w, authedRequest(http.MethodPost, "/v1/subscription/check", "", "user-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["subscription_plan"] != "premium" {
		t.Errorf("subscription_plan = %v, want premium", body["subscription_plan"])
	}
	if body["is_active"] != true || body["is_premium"] != true || body["has_ai_access"] != true {
		t.Errorf("derived flags = %v", body)
	}
	if body["product_id"] != "prod_Tbw7tVZDkHnrh2" {
		t.Errorf("product_id = %v", body["product_id"])
	}
}

func TestCanCreatePlanRejectsUnknownType(t *testing.T) {
	app := newTestApp(&stubSQL{}, &stubProfiles{profile: &domain.Profile{ID: "user-1"}}, &stubProvider{}, &stubCounter{})

	w := httptest.NewRecorder()
	app.CanCreatePlan(w, authedRequest(http.MethodGet, "/v1/entitlements/can-create?type=empresa", "", "user-1"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCanCreatePlanDeniesInactiveEntitlement(t *testing.T) {
	// Replica says premium, but the provider reports no subscriptions at all:
	// the gate must treat the caller as unsubscribed.
	profiles := &stubProfiles{
		profile:   &domain.Profile{ID: "user-1", Email: "ana@example.com"},
		entStatus: domain.StatusActive,
		entPlan:   domain.TierPremium,
	}
	provider := &stubProvider{customerID: ""}
	app := newTestApp(&stubSQL{}, profiles, provider, &stubCounter{})

	w := httptest.NewRecorder()
	app.CanCreatePlan(w, authedRequest(http.MethodGet, "/v1/entitlements/can-create?type=individual", "", "user-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["allowed"] != false {
		t.Errorf("allowed = %v, want false", body["allowed"])
	}
	if reason, _ := body["reason"].(string); reason == "" {
		t.Errorf("denied decision must carry a reason")
	}
}

func TestCanCreatePlanAllowsWithinLimits(t *testing.T) {
	profiles := &stubProfiles{
		profile:   &domain.Profile{ID: "user-1", Email: "ana@example.com"},
		entStatus: domain.StatusActive,
		entPlan:   domain.TierPremium,
	}
	provider := &stubProvider{
		customerID: "cus_1",
		subs: []billing.Subscription{
			{ID: "sub_1", Status: "active", ProductID: "prod_Tbw7tVZDkHnrh2"},
		},
	}
	counter := &stubCounter{counts: domain.Counts{Individual: 2}}
	app := newTestApp(&stubSQL{}, profiles, provider, counter)

	w := httptest.NewRecorder()
	app.CanCreatePlan(w, authedRequest(http.MethodGet, "/v1/entitlements/can-create?type=individual", "", "user-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["allowed"] != true {
		t.Errorf("allowed = %v, want true; body=%v", body["allowed"], body)
	}
	if _, present := body["reason"]; present {
		t.Errorf("allowed decision must not carry a reason")
	}
}
