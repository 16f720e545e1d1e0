// Package storage implements the router that presents a single read/write
// surface over the cloud and local policy stores. Store selection happens per
// call from the current session: authenticated sessions go to the cloud store
// with a single local fallback on failure, guests go straight to the local
// store under the sentinel owner id. Live queries re-subscribe whenever the
// session transitions (switch-latest: at most one inner subscription at any
// time).
package storage

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/insurancereminder/policy-engine/internal/api/metrics"
	"github.com/insurancereminder/policy-engine/internal/core/domain"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

// Router implements ports.PolicyStore over a cloud and a local store.
type Router struct {
	cloud    ports.PolicyStore
	local    ports.PolicyStore
	sessions ports.SessionReader
	log      zerolog.Logger
}

func NewRouter(cloud, local ports.PolicyStore, sessions ports.SessionReader, log zerolog.Logger) *Router {
	return &Router{cloud: cloud, local: local, sessions: sessions, log: log}
}

// Add routes a create. The cloud attempt and the local fallback are strictly
// sequential for one logical write; a cancelled caller can never leave both
// in flight.
func (r *Router) Add(ctx context.Context, p *domain.Policy) (string, error) {
	sess := r.sessions.Current(ctx)

	var cloudErr error
	if sess.Authenticated {
		record := *p
		record.UserID = sess.UserID
		id, err := r.cloud.Add(ctx, &record)
		if err == nil {
			return id, nil
		}
		cloudErr = err
		r.recovered("add", err)
	}

	record := *p
	record.UserID = domain.GuestUserID
	id, err := r.local.Add(ctx, &record)
	if err != nil {
		return "", &domain.StorageError{Op: "add", CloudErr: cloudErr, LocalErr: err}
	}
	return id, nil
}

func (r *Router) Update(ctx context.Context, p *domain.Policy) error {
	sess := r.sessions.Current(ctx)

	var cloudErr error
	if sess.Authenticated {
		err := r.cloud.Update(ctx, p)
		if err == nil || errors.Is(err, domain.ErrPolicyNotFound) {
			return err
		}
		cloudErr = err
		r.recovered("update", err)
	}

	record := *p
	record.UserID = domain.GuestUserID
	if err := r.local.Update(ctx, &record); err != nil {
		if errors.Is(err, domain.ErrPolicyNotFound) {
			return err
		}
		return &domain.StorageError{Op: "update", CloudErr: cloudErr, LocalErr: err}
	}
	return nil
}

func (r *Router) Delete(ctx context.Context, id string) error {
	sess := r.sessions.Current(ctx)

	var cloudErr error
	if sess.Authenticated {
		err := r.cloud.Delete(ctx, id)
		if err == nil {
			return nil
		}
		cloudErr = err
		r.recovered("delete", err)
	}

	if err := r.local.Delete(ctx, id); err != nil {
		return &domain.StorageError{Op: "delete", CloudErr: cloudErr, LocalErr: err}
	}
	return nil
}

// Get surfaces not-found from the cloud as a result, never as a reason to
// fall back; every other cloud failure gets the one local retry.
func (r *Router) Get(ctx context.Context, id string) (*domain.Policy, error) {
	sess := r.sessions.Current(ctx)

	var cloudErr error
	if sess.Authenticated {
		p, err := r.cloud.Get(ctx, id)
		if err == nil || errors.Is(err, domain.ErrPolicyNotFound) {
			return p, err
		}
		cloudErr = err
		r.recovered("get", err)
	}

	p, err := r.local.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPolicyNotFound) {
			return nil, err
		}
		return nil, &domain.StorageError{Op: "get", CloudErr: cloudErr, LocalErr: err}
	}
	return p, nil
}

// StreamAll mirrors both stores' full live query. Snapshots are sorted by
// ascending expiry date; no active filter is applied.
func (r *Router) StreamAll(ctx context.Context) (<-chan []domain.Policy, error) {
	return r.streamSwitched(ctx, false, func(inner context.Context, sess ports.Session) (<-chan []domain.Policy, error) {
		if sess.Authenticated {
			ch, err := r.cloud.StreamAll(inner)
			if err == nil {
				return ch, nil
			}
			r.recovered("stream", err)
		}
		return r.local.StreamAll(inner)
	}), nil
}

// StreamActiveForUser is the live "active policies" query. Snapshots contain
// only IsActive records sorted by ascending expiry date, filtered here
// regardless of what the backing store claims to filter. The effective owner
// is resolved from the session at every subscription, not from the supplied
// id: a sign-in mid-stream re-queries the cloud under the new identity, and
// the local path always uses the sentinel owner.
func (r *Router) StreamActiveForUser(ctx context.Context, _ string) (<-chan []domain.Policy, error) {
	return r.streamSwitched(ctx, true, func(inner context.Context, sess ports.Session) (<-chan []domain.Policy, error) {
		if sess.Authenticated {
			ch, err := r.cloud.StreamActiveForUser(inner, sess.UserID)
			if err == nil {
				return ch, nil
			}
			r.recovered("stream", err)
		}
		return r.local.StreamActiveForUser(inner, domain.GuestUserID)
	}), nil
}

// streamSwitched runs the switch-latest loop: one inner subscription at a
// time, torn down and replaced on every session transition. subscribe picks
// the store for the given session (with its own fallback).
func (r *Router) streamSwitched(
	ctx context.Context,
	activeOnly bool,
	subscribe func(context.Context, ports.Session) (<-chan []domain.Policy, error),
) <-chan []domain.Policy {
	out := make(chan []domain.Policy, 1)
	transitions := r.sessions.Watch(ctx)

	go func() {
		defer close(out)

		var (
			inner       <-chan []domain.Policy
			innerCancel context.CancelFunc
		)
		defer func() {
			if innerCancel != nil {
				innerCancel()
			}
		}()

		start := func(sess ports.Session) {
			// cancel the previous subscription before opening the next so
			// stale emissions can never interleave with the new store's
			if innerCancel != nil {
				innerCancel()
				innerCancel = nil
				inner = nil
			}
			innerCtx, cancel := context.WithCancel(ctx)
			ch, err := subscribe(innerCtx, sess)
			if err != nil {
				cancel()
				r.log.Error().Err(err).Msg("live query subscription failed")
				return
			}
			inner = ch
			innerCancel = cancel
		}

		start(r.sessions.Current(ctx))

		for {
			select {
			case <-ctx.Done():
				return
			case sess, ok := <-transitions:
				if !ok {
					return
				}
				metrics.StreamSwitchesTotal.Inc()
				start(sess)
			case snap, ok := <-inner:
				if !ok {
					inner = nil
					continue
				}
				emitLatest(out, shapeSnapshot(snap, activeOnly))
			}
		}
	}()

	return out
}

// shapeSnapshot applies the router's filtering/sorting contract: active-only
// when requested, always sorted by ascending expiry date.
func shapeSnapshot(in []domain.Policy, activeOnly bool) []domain.Policy {
	out := make([]domain.Policy, 0, len(in))
	for _, p := range in {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiryDate.Before(out[j].ExpiryDate)
	})
	return out
}

// emitLatest delivers a snapshot with latest-wins semantics: a consumer that
// lags behind only ever reads the newest state.
func emitLatest(out chan []domain.Policy, snap []domain.Policy) {
	for {
		select {
		case out <- snap:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}

func (r *Router) recovered(op string, err error) {
	metrics.StorageFallbacksTotal.WithLabelValues(op).Inc()
	r.log.Warn().Err(err).Str("op", op).Msg("cloud store failed, falling back to local")
}
