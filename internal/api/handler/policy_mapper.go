package handler

import (
	"time"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

// --- Request → Service input ---

func toAddInput(req policyRequest) ports.AddPolicyInput {
	return ports.AddPolicyInput{
		Name:               req.Name,
		Type:               req.Type,
		ExpiryDate:         req.ExpiryDate,
		ReminderDaysBefore: req.ReminderDaysBefore,
		CurrentPrice:       req.CurrentPrice,
		Currency:           req.Currency,
		CompanyName:        req.CompanyName,
		CompanyID:          req.CompanyID,
		CompanyLogoURL:     req.CompanyLogoURL,
		PolicyNumber:       req.PolicyNumber,
	}
}

// --- Domain → HTTP response ---

// toPolicyResponse renders a policy with its derived lifecycle fields as of
// the given day.
func toPolicyResponse(p domain.Policy, today time.Time) policyResponse {
	return policyResponse{
		ID:                 p.ID,
		Type:               string(p.Type),
		TypeDisplayName:    p.Type.DisplayName(),
		Name:               p.Name,
		ExpiryDate:         p.ExpiryDate.Format(time.DateOnly),
		ReminderDaysBefore: p.ReminderDaysBefore,
		Status:             string(p.Status(today)),
		DaysUntilExpiry:    p.DaysUntilExpiry(today),
		CurrentPrice:       p.CurrentPrice,
		Currency:           p.Currency,
		CompanyName:        p.CompanyName,
		CompanyID:          p.CompanyID,
		CompanyLogoURL:     p.CompanyLogoURL,
		PolicyNumber:       p.PolicyNumber,
		PolicyFileURL:      p.PolicyFileURL,
		PolicyFileName:     p.PolicyFileName,
		SharedWithUserID:   p.SharedWithUserID,
	}
}

func toListResponse(groups []ports.CategoryGroup, today time.Time) listPoliciesResponse {
	out := make([]categoryGroupResponse, len(groups))
	for i, g := range groups {
		policies := make([]policyResponse, len(g.Policies))
		for j, p := range g.Policies {
			policies[j] = toPolicyResponse(p, today)
		}
		out[i] = categoryGroupResponse{Category: g.Category, Policies: policies}
	}
	return listPoliciesResponse{Groups: out}
}

func toCompanyResponses(companies []domain.InsuranceCompany) []companyResponse {
	out := make([]companyResponse, len(companies))
	for i, c := range companies {
		out[i] = companyResponse{
			ID:          c.ID,
			DisplayName: c.DisplayName,
			LogoURL:     c.LogoURL,
			WebsiteURL:  c.WebsiteURL,
		}
	}
	return out
}

func toProviderResponses(providers []domain.ComparisonProvider) []comparisonProviderResponse {
	out := make([]comparisonProviderResponse, len(providers))
	for i, p := range providers {
		out[i] = comparisonProviderResponse{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			URL:         p.BaseURL,
		}
	}
	return out
}
