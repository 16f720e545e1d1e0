package local

import (
	"context"

	"sync"

	"github.com/google/uuid"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// localIDPrefix keeps the local id namespace disjoint from cloud-assigned
// ids; a record id always reveals which store owns it.
const localIDPrefix = "local_"

func newLocalID() string {
	return localIDPrefix + uuid.NewString()
}

// MemoryStore is the in-memory local store. The record list is replaced
// wholesale on every write (copy-on-write), so readers hold a consistent
// snapshot without locking across the read.
type MemoryStore struct {
	mu       sync.RWMutex
	policies []domain.Policy
	hub      *hub
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hub: newHub()}
}

func (s *MemoryStore) Add(_ context.Context, p *domain.Policy) (string, error) {
	record := *p
	record.ID = newLocalID()
	record.IsActive = true

	s.mu.Lock()
	next := make([]domain.Policy, len(s.policies), len(s.policies)+1)
	copy(next, s.policies)
	s.policies = append(next, record)
	s.mu.Unlock()

	s.hub.broadcast()
	return record.ID, nil
}

func (s *MemoryStore) Update(_ context.Context, p *domain.Policy) error {
	s.mu.Lock()
	idx := -1
	for i := range s.policies {
		if s.policies[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrPolicyNotFound
	}
	next := make([]domain.Policy, len(s.policies))
	copy(next, s.policies)
	next[idx] = *p
	s.policies = next
	s.mu.Unlock()

	s.hub.broadcast()
	return nil
}

// Delete flips IsActive off. Unknown or already-inactive ids are a no-op, so
// repeated deletes are safe.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	changed := false

	s.mu.Lock()
	next := make([]domain.Policy, len(s.policies))
	copy(next, s.policies)
	for i := range next {
		if next[i].ID == id && next[i].IsActive {
			next[i].IsActive = false
			changed = true
		}
	}
	if changed {
		s.policies = next
	}
	s.mu.Unlock()

	if changed {
		s.hub.broadcast()
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.policies {
		if s.policies[i].ID == id {
			clone := s.policies[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrPolicyNotFound
}

func (s *MemoryStore) StreamAll(ctx context.Context) (<-chan []domain.Policy, error) {
	return streamSnapshots(ctx, s.hub, func() []domain.Policy {
		return s.snapshot(func(domain.Policy) bool { return true })
	}), nil
}

// StreamActiveForUser returns every record owned by userID; router-side
// filtering removes inactive ones (mirrors the partial query capability of
// the cloud backend, so both stores look alike to the router).
func (s *MemoryStore) StreamActiveForUser(ctx context.Context, userID string) (<-chan []domain.Policy, error) {
	return streamSnapshots(ctx, s.hub, func() []domain.Policy {
		return s.snapshot(func(p domain.Policy) bool { return p.UserID == userID })
	}), nil
}

func (s *MemoryStore) snapshot(keep func(domain.Policy) bool) []domain.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
