package domain

import "fmt"

// Tier enumerates billing tiers. The zero value means no subscription.
type Tier string

const (
	TierNone    Tier = ""
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// ParseTier maps a stored plan string to a Tier. Unknown values collapse to
// TierNone so a corrupted profile row never grants access.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierBasic, TierPremium:
		return Tier(s)
	default:
		return TierNone
	}
}

// ResourceType enumerates the life-plan categories subject to per-tier limits.
type ResourceType string

const (
	ResourceIndividual ResourceType = "individual"
	ResourceFamiliar   ResourceType = "familiar"
	ResourceFilho      ResourceType = "filho"
)

// ParseResourceType validates a plan type coming from a request.
func ParseResourceType(s string) (ResourceType, bool) {
	switch ResourceType(s) {
	case ResourceIndividual, ResourceFamiliar, ResourceFilho:
		return ResourceType(s), true
	default:
		return "", false
	}
}

func (r ResourceType) label() string {
	switch r {
	case ResourceIndividual:
		return "individual"
	case ResourceFamiliar:
		return "family"
	case ResourceFilho:
		return "child"
	default:
		return string(r)
	}
}

// Limits holds the per-type and aggregate creation limits of a tier.
type Limits struct {
	Individual int
	Familiar   int
	Filho      int
	Total      int
}

// Of returns the per-type limit for the given resource type.
func (l Limits) Of(rt ResourceType) int {
	switch rt {
	case ResourceIndividual:
		return l.Individual
	case ResourceFamiliar:
		return l.Familiar
	case ResourceFilho:
		return l.Filho
	default:
		return 0
	}
}

// Counts is the caller-supplied number of existing plans per type.
type Counts struct {
	Individual int
	Familiar   int
	Filho      int
}

// Of returns the current count for the given resource type.
func (c Counts) Of(rt ResourceType) int {
	switch rt {
	case ResourceIndividual:
		return c.Individual
	case ResourceFamiliar:
		return c.Familiar
	case ResourceFilho:
		return c.Filho
	default:
		return 0
	}
}

// Total sums the counts across all resource types.
func (c Counts) Total() int {
	return c.Individual + c.Familiar + c.Filho
}

// Feature enumerates tier-gated capabilities.
type Feature string

const (
	FeatureAISummary      Feature = "ai_summary"
	FeatureEmailReminders Feature = "email_reminders"
	FeaturePDFExport      Feature = "pdf_export"
	FeatureCloudStorage   Feature = "cloud_storage"
)

// Features flags the capabilities bundled with a tier.
type Features struct {
	AISummary      bool
	EmailReminders bool
	PDFExport      bool
	CloudStorage   bool
}

// TierConfig is the immutable, compiled-in record describing one tier.
type TierConfig struct {
	Name       string
	PriceCents int64
	ProductID  string
	PriceID    string
	Limits     Limits
	Features   Features
}

var tierCatalog = map[Tier]TierConfig{
	TierBasic: {
		Name:       "Basic",
		PriceCents: 1990,
		ProductID:  "prod_Tbw6ZCYRIgPNee",
		PriceID:    "price_1QhGkwDx2maOmVXqKcBasic",
		Limits:     Limits{Individual: 1, Familiar: 0, Filho: 0, Total: 1},
		Features: Features{
			AISummary:      false,
			EmailReminders: true,
			PDFExport:      false,
			CloudStorage:   false,
		},
	},
	TierPremium: {
		Name:       "Premium",
		PriceCents: 3990,
		ProductID:  "prod_Tbw7tVZDkHnrh2",
		PriceID:    "price_1QhGm3Dx2maOmVXqPremium",
		Limits:     Limits{Individual: 5, Familiar: 1, Filho: 4, Total: 8},
		Features: Features{
			AISummary:      true,
			EmailReminders: true,
			PDFExport:      true,
			CloudStorage:   true,
		},
	},
}

// ConfigFor returns the catalog record for a tier.
func ConfigFor(tier Tier) (TierConfig, bool) {
	cfg, ok := tierCatalog[tier]
	return cfg, ok
}

// LimitsFor returns the creation limits for a tier. A missing or unknown tier
// yields all-zero limits: nothing is allowed, but nothing errors either.
func LimitsFor(tier Tier) Limits {
	return tierCatalog[tier].Limits
}

// TierFromProductID maps an external catalog product ID to a tier. An empty ID
// resolves to TierNone. An unknown non-empty ID resolves to TierBasic so a
// paying customer is never locked out by a catalog mismatch; exact=false lets
// the caller surface the mismatch.
func TierFromProductID(productID string) (tier Tier, exact bool) {
	if productID == "" {
		return TierNone, true
	}
	for t, cfg := range tierCatalog {
		if cfg.ProductID == productID {
			return t, true
		}
	}
	return TierBasic, false
}

// HasFeature reports whether the tier bundles the given feature.
func HasFeature(tier Tier, feature Feature) bool {
	f := tierCatalog[tier].Features
	switch feature {
	case FeatureAISummary:
		return f.AISummary
	case FeatureEmailReminders:
		return f.EmailReminders
	case FeaturePDFExport:
		return f.PDFExport
	case FeatureCloudStorage:
		return f.CloudStorage
	default:
		return false
	}
}

// Decision is the outcome of a creation gate check.
type Decision struct {
	Allowed bool
	Reason  string
}

// CanCreate evaluates whether an account on the given tier may create another
// plan of the given type. A zero-limit type always reports the
// exclusive-to-Premium reason, never the generic limit message, so the
// upsell copy matches what the tier actually sells.
func CanCreate(tier Tier, rt ResourceType, counts Counts) Decision {
	cfg, ok := tierCatalog[tier]
	if !ok {
		return Decision{Allowed: false, Reason: "An active subscription is required to create plans. Subscribe to get started."}
	}
	limit := cfg.Limits.Of(rt)
	if limit == 0 {
		return Decision{Allowed: false, Reason: fmt.Sprintf("Creating %s plans is exclusive to the Premium plan.", rt.label())}
	}
	if counts.Of(rt) >= limit {
		return Decision{Allowed: false, Reason: fmt.Sprintf("%s plan limit of %d %s plan(s) reached. Upgrade to create more.", cfg.Name, limit, rt.label())}
	}
	if counts.Total() >= cfg.Limits.Total {
		return Decision{Allowed: false, Reason: fmt.Sprintf("%s plan total limit of %d plans reached.", cfg.Name, cfg.Limits.Total)}
	}
	return Decision{Allowed: true}
}
