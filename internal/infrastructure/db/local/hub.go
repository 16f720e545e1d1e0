// Package local implements the on-device policy stores: an in-memory
// copy-on-write store used for guest mode and tests, and a SQLite store for
// durable local persistence. Both feed live snapshot streams through a small
// in-process change hub.
package local

import (
	"context"
	"sync"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// hub fans out change signals to stream subscribers. Signals carry no
// payload; subscribers re-read their snapshot on each tick.
type hub struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan struct{})}
}

func (h *hub) subscribe() (int, <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch
	return id, ch
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// broadcast signals every subscriber without blocking. A pending unread
// signal already covers the new change.
func (h *hub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// streamSnapshots emits the result of fetch on subscription and after every
// hub signal, until ctx is cancelled. The channel holds at most one pending
// snapshot: a slow consumer sees the latest state, never a backlog.
func streamSnapshots(ctx context.Context, h *hub, fetch func() []domain.Policy) <-chan []domain.Policy {
	id, changes := h.subscribe()
	out := make(chan []domain.Policy, 1)

	emit := func(snap []domain.Policy) {
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

	go func() {
		defer close(out)
		defer h.unsubscribe(id)

		emit(fetch())
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				emit(fetch())
			}
		}
	}()

	return out
}
