package domain

import "testing"

func TestTierFor(t *testing.T) {
	if TierFor(true) != TierPremium {
		t.Fatal("authenticated sessions are premium")
	}
	if TierFor(false) != TierFree {
		t.Fatal("guest sessions are free")
	}
}

func TestCanAddPolicy(t *testing.T) {
	cases := []struct {
		name  string
		tier  Tier
		count int
		want  bool
	}{
		{"free below limit", TierFree, 0, true},
		{"free one below limit", TierFree, FreeTierMaxPolicies - 1, true},
		{"free at limit", TierFree, FreeTierMaxPolicies, false},
		{"free above limit", TierFree, FreeTierMaxPolicies + 3, false},
		{"premium at limit", TierPremium, FreeTierMaxPolicies, true},
		{"premium far above limit", TierPremium, 1000, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAddPolicy(tc.tier, tc.count); got != tc.want {
				t.Fatalf("CanAddPolicy(%s, %d) = %v, want %v", tc.tier, tc.count, got, tc.want)
			}
		})
	}
}

func TestCompanies_CatalogFilters(t *testing.T) {
	dental := 0
	for _, c := range Companies() {
		if c.Supports(TypeDental) {
			dental++
		}
	}
	if dental == 0 {
		t.Fatal("catalog must contain dental insurers")
	}

	other := OtherCompany()
	for _, pt := range PolicyTypes() {
		if !other.Supports(pt) {
			t.Fatalf("the Other entry must support every type, missing %s", pt)
		}
	}
}

func TestComparisonProviders_Supports(t *testing.T) {
	for _, p := range ComparisonProviders() {
		if !p.Supports(TypeAuto) && !p.Supports(TypeHome) && !p.Supports(TypeHealth) {
			t.Fatalf("provider %s supports none of the core types", p.ID)
		}
		if p.Supports(TypePet) {
			t.Fatalf("provider %s unexpectedly supports PET", p.ID)
		}
	}
}

func TestPolicyTypeMetadata(t *testing.T) {
	if got := TypeAuto.Category(); got != CategoryVehicle {
		t.Fatalf("AUTO category = %q", got)
	}
	if got := TypePet.Category(); got != CategoryLifeFamily {
		t.Fatalf("PET category = %q", got)
	}
	if got := TypeHome.DisplayName(); got != "Home Insurance" {
		t.Fatalf("HOME display name = %q", got)
	}

	if _, err := ParsePolicyType("AUTO"); err != nil {
		t.Fatalf("AUTO must parse: %v", err)
	}
	if _, err := ParsePolicyType("auto"); err == nil {
		t.Fatal("type tags are case sensitive")
	}
}
