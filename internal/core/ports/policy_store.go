package ports

import (
	"context"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// PolicyStore defines the persistence surface mirrored by the cloud store,
// the local store, and the storage router that fronts them.
//
// Stream methods are live queries: the returned channel carries a full
// snapshot of the matching records on subscription and again after every
// data change, and closes when ctx is cancelled. Snapshot ordering and
// active-filtering are NOT guaranteed by implementations; the router applies
// both defensively.
type PolicyStore interface {
	// Add persists a new policy and returns the store-assigned id.
	Add(ctx context.Context, p *domain.Policy) (string, error)

	// Update rewrites an existing policy. Returns domain.ErrPolicyNotFound
	// when no record carries the id.
	Update(ctx context.Context, p *domain.Policy) error

	// Delete soft-deletes a policy (flips IsActive to false). Deleting an
	// already-deleted record is not an error.
	Delete(ctx context.Context, id string) error

	// Get fetches a policy by id, or domain.ErrPolicyNotFound.
	Get(ctx context.Context, id string) (*domain.Policy, error)

	// StreamAll is a live query over every record in the store.
	StreamAll(ctx context.Context) (<-chan []domain.Policy, error)

	// StreamActiveForUser is a live query over a single owner's records.
	// Implementations may return inactive records; callers filter.
	StreamActiveForUser(ctx context.Context, userID string) (<-chan []domain.Policy, error)
}
