package service

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// CatalogService serves the static insurer and comparison-provider catalogs.
type CatalogService struct {
	logger zerolog.Logger
}

func NewCatalogService(logger zerolog.Logger) *CatalogService {
	return &CatalogService{logger: logger}
}

// Companies lists insurers supporting the given policy type, sorted by
// display name, with the generic "other" entry always appended last.
// An empty policyType lists the whole catalog.
func (s *CatalogService) Companies(policyType domain.PolicyType) []domain.InsuranceCompany {
	all := domain.Companies()
	out := make([]domain.InsuranceCompany, 0, len(all)+1)
	for _, c := range all {
		if policyType == "" || c.Supports(policyType) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return append(out, domain.OtherCompany())
}

// ComparisonProviders lists price-comparison sites supporting the given
// policy type. An empty policyType lists all providers.
func (s *CatalogService) ComparisonProviders(policyType domain.PolicyType) []domain.ComparisonProvider {
	all := domain.ComparisonProviders()
	if policyType == "" {
		return all
	}
	out := make([]domain.ComparisonProvider, 0, len(all))
	for _, p := range all {
		if p.Supports(policyType) {
			out = append(out, p)
		}
	}
	return out
}
