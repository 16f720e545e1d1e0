package ports

import (
	"context"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// AddPolicyInput carries the raw form fields for a new policy. Values are
// text as submitted; the service owns parsing and validation.
type AddPolicyInput struct {
	Name               string
	Type               string
	ExpiryDate         string // YYYY-MM-DD
	ReminderDaysBefore string
	CurrentPrice       string
	Currency           string
	CompanyName        string
	CompanyID          string
	CompanyLogoURL     string
	PolicyNumber       string
}

// UpdatePolicyInput carries replacement form fields for an existing policy.
type UpdatePolicyInput struct {
	ID     string
	Fields AddPolicyInput
}

// RenewPolicyInput rolls a policy's expiry date forward. NewPrice is
// optional; when empty the existing price is preserved.
type RenewPolicyInput struct {
	ID            string
	NewExpiryDate string // YYYY-MM-DD
	NewPrice      string
}

// CategoryGroup is one presentation group of the active-policy list:
// policies of one category, sorted by ascending expiry date.
type CategoryGroup struct {
	Category string
	Policies []domain.Policy
}

// PolicyService defines the lifecycle use cases consumed by the front ends.
type PolicyService interface {
	// AddPolicy validates, enforces the free-tier ceiling, stamps
	// timestamps, and persists. Returns the new id.
	AddPolicy(ctx context.Context, input AddPolicyInput) (string, error)

	// UpdatePolicy validates and rewrites an existing record.
	UpdatePolicy(ctx context.Context, input UpdatePolicyInput) error

	// DeletePolicy soft-deletes; a second delete of the same id is a no-op.
	DeletePolicy(ctx context.Context, id string) error

	// RenewPolicy looks up the record, applies the new expiry date and
	// optional price, and rewrites it.
	RenewPolicy(ctx context.Context, input RenewPolicyInput) error

	// GetPolicy fetches a single record.
	GetPolicy(ctx context.Context, id string) (*domain.Policy, error)

	// ListActivePolicies returns the session's active policies grouped by
	// category (groups sorted by name, members by ascending expiry date).
	ListActivePolicies(ctx context.Context) ([]CategoryGroup, error)

	// StreamActivePolicies is the live form of ListActivePolicies: a new
	// grouped snapshot on every data or session change.
	StreamActivePolicies(ctx context.Context) (<-chan []CategoryGroup, error)

	// SharePolicy records a partner on the policy. Premium only.
	SharePolicy(ctx context.Context, id, partnerUserID string) error

	// AttachPolicyFile records an uploaded document's name and URL on the
	// policy. Premium only; upload mechanics are the adapter's concern.
	AttachPolicyFile(ctx context.Context, id, fileName, fileURL string) error

	// ExportPolicies returns the session's active policies for export.
	ExportPolicies(ctx context.Context) ([]domain.Policy, error)
}
