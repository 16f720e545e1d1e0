package ports

import (
	"context"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// AuthService defines the account use cases adjacent to the policy core.
type AuthService interface {
	// Register creates an account. Email and password rules are the
	// product's simple predicates (see domain.ValidateEmail/ValidatePassword).
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Login verifies credentials and returns a signed token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)

	// UpgradeToPremium flips the subscription flag. No billing is involved:
	// any authenticated account qualifies.
	UpgradeToPremium(ctx context.Context, userID string) error

	// ShareWithPartner links another account by email and returns its id.
	ShareWithPartner(ctx context.Context, userID, partnerEmail string) (string, error)
}
