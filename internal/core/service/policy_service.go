package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/insurancereminder/policy-engine/internal/api/metrics"
	"github.com/insurancereminder/policy-engine/internal/core/domain"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

// PolicyService implements the lifecycle use cases over the storage router.
type PolicyService struct {
	store    ports.PolicyStore
	sessions ports.SessionReader
	logger   zerolog.Logger
	clock    func() time.Time
}

func NewPolicyService(store ports.PolicyStore, sessions ports.SessionReader, logger zerolog.Logger) *PolicyService {
	return &PolicyService{
		store:    store,
		sessions: sessions,
		logger:   logger,
		clock:    time.Now,
	}
}

func (s *PolicyService) today() time.Time {
	now := s.clock().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// AddPolicy validates the form, enforces the free-tier ceiling, stamps
// timestamps, and persists through the router. The ceiling is checked before
// any storage write.
func (s *PolicyService) AddPolicy(ctx context.Context, input ports.AddPolicyInput) (string, error) {
	p, err := domain.ParsePolicyForm(toForm(input))
	if err != nil {
		return "", err
	}

	sess := s.sessions.Current(ctx)
	tier := domain.TierFor(sess.Authenticated)

	active, err := s.activeSnapshot(ctx)
	if err != nil {
		return "", err
	}
	if !domain.CanAddPolicy(tier, len(active)) {
		metrics.CapacityRejectionsTotal.Inc()
		return "", domain.ErrCapacityExceeded
	}

	today := s.today()
	p.IsActive = true
	p.UserID = sess.UserID
	p.CreatedAt = today
	p.UpdatedAt = today

	id, err := s.store.Add(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Str("name", p.Name).Msg("failed to add policy")
		return "", err
	}

	metrics.PoliciesCreatedTotal.WithLabelValues(string(p.Type)).Inc()
	s.logger.Info().Str("policy_id", id).Str("type", string(p.Type)).Msg("policy added")
	return id, nil
}

// UpdatePolicy overlays the validated form onto the stored record; owner,
// creation timestamp and attached file survive an update untouched.
func (s *PolicyService) UpdatePolicy(ctx context.Context, input ports.UpdatePolicyInput) error {
	fields, err := domain.ParsePolicyForm(toForm(input.Fields))
	if err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, input.ID)
	if err != nil {
		return err
	}

	updated := *existing
	updated.Type = fields.Type
	updated.Name = fields.Name
	updated.ExpiryDate = fields.ExpiryDate
	updated.ReminderDaysBefore = fields.ReminderDaysBefore
	updated.CurrentPrice = fields.CurrentPrice
	updated.Currency = fields.Currency
	updated.CompanyName = fields.CompanyName
	updated.CompanyID = fields.CompanyID
	updated.CompanyLogoURL = fields.CompanyLogoURL
	updated.PolicyNumber = fields.PolicyNumber
	updated.Normalize()
	updated.UpdatedAt = s.today()

	return s.store.Update(ctx, &updated)
}

// DeletePolicy soft-deletes. Deleting twice leaves the record inactive both
// times without error.
func (s *PolicyService) DeletePolicy(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("policy_id", id).Msg("policy deleted")
	return nil
}

// RenewPolicy rolls the expiry date forward, keeping the existing price when
// no new one is given.
func (s *PolicyService) RenewPolicy(ctx context.Context, input ports.RenewPolicyInput) error {
	if input.NewExpiryDate == "" {
		return &domain.ValidationError{Field: "expiry_date", Message: "expiry date is required"}
	}
	newExpiry, err := time.Parse(time.DateOnly, input.NewExpiryDate)
	if err != nil {
		return &domain.ValidationError{Field: "expiry_date", Message: "invalid date format (YYYY-MM-DD)"}
	}

	existing, err := s.store.Get(ctx, input.ID)
	if err != nil {
		return err
	}

	renewed := *existing
	renewed.ExpiryDate = newExpiry
	if price := domain.ParsePrice(input.NewPrice); price != nil {
		renewed.CurrentPrice = price
	}
	renewed.UpdatedAt = s.today()

	if err := s.store.Update(ctx, &renewed); err != nil {
		return err
	}
	s.logger.Info().Str("policy_id", input.ID).Str("expiry_date", input.NewExpiryDate).Msg("policy renewed")
	return nil
}

func (s *PolicyService) GetPolicy(ctx context.Context, id string) (*domain.Policy, error) {
	return s.store.Get(ctx, id)
}

// ListActivePolicies returns one grouped snapshot of the session's active
// policies.
func (s *PolicyService) ListActivePolicies(ctx context.Context) ([]ports.CategoryGroup, error) {
	active, err := s.activeSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return groupByCategory(active), nil
}

// StreamActivePolicies is the live grouped list: a new snapshot on every
// data change and on every session transition.
func (s *PolicyService) StreamActivePolicies(ctx context.Context) (<-chan []ports.CategoryGroup, error) {
	sess := s.sessions.Current(ctx)
	stream, err := s.store.StreamActiveForUser(ctx, sess.EffectiveUserID(domain.GuestUserID))
	if err != nil {
		return nil, err
	}

	out := make(chan []ports.CategoryGroup, 1)
	go func() {
		defer close(out)
		for snap := range stream {
			groups := groupByCategory(snap)
			select {
			case out <- groups:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// SharePolicy records a partner on the policy. Premium only.
func (s *PolicyService) SharePolicy(ctx context.Context, id, partnerUserID string) error {
	if err := s.requirePremium(ctx); err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	shared := *existing
	shared.SharedWithUserID = partnerUserID
	shared.UpdatedAt = s.today()
	return s.store.Update(ctx, &shared)
}

// AttachPolicyFile records an uploaded document reference. Premium only;
// the file name is sanitized before it is stored.
func (s *PolicyService) AttachPolicyFile(ctx context.Context, id, fileName, fileURL string) error {
	if err := s.requirePremium(ctx); err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	updated := *existing
	updated.PolicyFileName = domain.SanitizeFileName(fileName)
	updated.PolicyFileURL = fileURL
	updated.UpdatedAt = s.today()
	return s.store.Update(ctx, &updated)
}

// ExportPolicies returns the session's active policies, expiry-sorted.
func (s *PolicyService) ExportPolicies(ctx context.Context) ([]domain.Policy, error) {
	return s.activeSnapshot(ctx)
}

func (s *PolicyService) requirePremium(ctx context.Context) error {
	sess := s.sessions.Current(ctx)
	if !domain.TierFor(sess.Authenticated).IsPremium() {
		return domain.ErrPremiumRequired
	}
	return nil
}

// activeSnapshot takes a single snapshot from the live active-policies query
// and tears the subscription down again.
func (s *PolicyService) activeSnapshot(ctx context.Context) ([]domain.Policy, error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := s.sessions.Current(ctx)
	stream, err := s.store.StreamActiveForUser(subCtx, sess.EffectiveUserID(domain.GuestUserID))
	if err != nil {
		return nil, err
	}

	select {
	case snap, ok := <-stream:
		if !ok {
			return nil, errors.New("active policy stream closed before first snapshot")
		}
		return snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// groupByCategory shapes an expiry-sorted snapshot for presentation: one
// group per category, groups sorted by category name, members keeping their
// expiry order.
func groupByCategory(policies []domain.Policy) []ports.CategoryGroup {
	byCategory := make(map[string][]domain.Policy)
	for _, p := range policies {
		cat := p.Type.Category()
		byCategory[cat] = append(byCategory[cat], p)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]ports.CategoryGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, ports.CategoryGroup{Category: name, Policies: byCategory[name]})
	}
	return groups
}

func toForm(in ports.AddPolicyInput) domain.PolicyForm {
	return domain.PolicyForm{
		Name:               in.Name,
		Type:               in.Type,
		ExpiryDate:         in.ExpiryDate,
		ReminderDaysBefore: in.ReminderDaysBefore,
		CurrentPrice:       in.CurrentPrice,
		Currency:           in.Currency,
		CompanyName:        in.CompanyName,
		CompanyID:          in.CompanyID,
		CompanyLogoURL:     in.CompanyLogoURL,
		PolicyNumber:       in.PolicyNumber,
	}
}
