package ports

import (
	"context"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// AuthRepository defines user-account persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update rewrites mutable account fields (tier, partner link).
	Update(ctx context.Context, user *domain.User) error
}
