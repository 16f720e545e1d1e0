package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/insurancereminder/policy-engine/internal/api/metrics"
	"github.com/insurancereminder/policy-engine/internal/core/domain"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

// ReminderSink receives reminder events for asynchronous delivery.
type ReminderSink interface {
	Enqueue(event ports.ReminderEvent)
}

// ReminderService scans active policies and emits an expiry reminder for
// every one that is expired or inside its reminder window. The scan covers
// every backing store directly: reminders are a system concern, not a
// session's view, so cloud and local records are both visited. The scan is
// externally triggered (once daily); dedup guarantees at most one reminder
// per policy per day even when it runs more often.
type ReminderService struct {
	stores []ports.PolicyStore
	dedup  ports.ReminderDedup
	sink   ReminderSink
	log    zerolog.Logger
	clock  func() time.Time
}

func NewReminderService(stores []ports.PolicyStore, dedup ports.ReminderDedup, sink ReminderSink, log zerolog.Logger) *ReminderService {
	return &ReminderService{
		stores: stores,
		dedup:  dedup,
		sink:   sink,
		log:    log,
		clock:  time.Now,
	}
}

// Run performs one scan over all policies.
func (s *ReminderService) Run(ctx context.Context) error {
	timer := prometheus.NewTimer(metrics.ReminderScanDuration)
	defer timer.ObserveDuration()

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("reminder scan: %w", err)
	}

	today := s.clock().UTC()
	day := today.Format(time.DateOnly)
	emitted := 0

	for _, p := range snapshot {
		if !p.IsActive {
			continue
		}
		if !domain.IsExpired(p.ExpiryDate, today) && !domain.IsExpiringSoon(p.ExpiryDate, p.ReminderDaysBefore, today) {
			continue
		}

		sent, err := s.dedup.AlreadySent(ctx, p.ID, day)
		if err != nil {
			s.log.Warn().Err(err).Str("policy_id", p.ID).Msg("reminder dedup check failed, emitting anyway")
		} else if sent {
			metrics.ReminderDedupTotal.WithLabelValues("hit").Inc()
			continue
		}
		metrics.ReminderDedupTotal.WithLabelValues("miss").Inc()

		if err := s.dedup.MarkSent(ctx, p.ID, day); err != nil {
			s.log.Warn().Err(err).Str("policy_id", p.ID).Msg("failed to mark reminder as sent")
		}

		event, severity := buildReminder(p, domain.DaysUntilExpiry(p.ExpiryDate, today))
		s.sink.Enqueue(event)
		metrics.RemindersEmittedTotal.WithLabelValues(severity).Inc()
		emitted++
	}

	s.log.Info().Int("policies", len(snapshot)).Int("reminders", emitted).Msg("reminder scan complete")
	return nil
}

// buildReminder produces the notification wording for a policy.
func buildReminder(p domain.Policy, daysUntil int) (ports.ReminderEvent, string) {
	switch {
	case daysUntil < 0:
		return ports.ReminderEvent{
			PolicyID: p.ID,
			Title:    "Insurance Expired!",
			Body:     fmt.Sprintf("%s has expired %d days ago", p.Name, -daysUntil),
		}, "expired"
	case daysUntil == 0:
		return ports.ReminderEvent{
			PolicyID: p.ID,
			Title:    "Insurance Expires Today!",
			Body:     fmt.Sprintf("%s expires today", p.Name),
		}, "expires_today"
	default:
		return ports.ReminderEvent{
			PolicyID: p.ID,
			Title:    "Insurance Expiring Soon",
			Body:     fmt.Sprintf("%s expires in %d days", p.Name, daysUntil),
		}, "expiring_soon"
	}
}

// snapshot concatenates one snapshot from each store. A store that fails is
// logged and skipped so an outage in one tier cannot silence the others.
func (s *ReminderService) snapshot(ctx context.Context) ([]domain.Policy, error) {
	var all []domain.Policy
	var firstErr error

	for _, store := range s.stores {
		snap, err := firstSnapshot(ctx, store)
		if err != nil {
			s.log.Warn().Err(err).Msg("store snapshot failed during reminder scan")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		all = append(all, snap...)
	}

	if len(all) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return all, nil
}

func firstSnapshot(ctx context.Context, store ports.PolicyStore) ([]domain.Policy, error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := store.StreamAll(subCtx)
	if err != nil {
		return nil, err
	}

	select {
	case snap, ok := <-stream:
		if !ok {
			return nil, fmt.Errorf("policy stream closed before first snapshot")
		}
		return snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
