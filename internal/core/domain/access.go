package domain

// Tier is the subscription level of a session. There is no paid-tier
// distinction: any authenticated account is premium, guests are free.
type Tier string

const (
	TierFree    Tier = "FREE"
	TierPremium Tier = "PREMIUM"
)

// IsPremium reports whether premium-only features (partner sharing, cloud
// sync, file attachments) are available.
func (t Tier) IsPremium() bool { return t == TierPremium }

// TierFor resolves the tier of a session.
func TierFor(authenticated bool) Tier {
	if authenticated {
		return TierPremium
	}
	return TierFree
}

// CanAddPolicy reports whether one more policy may be added given the
// current number of active policies. Premium is unlimited; free is capped
// at FreeTierMaxPolicies.
func CanAddPolicy(tier Tier, currentActiveCount int) bool {
	return tier.IsPremium() || currentActiveCount < FreeTierMaxPolicies
}
