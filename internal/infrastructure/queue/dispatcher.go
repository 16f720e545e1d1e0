package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes reminder events to a fixed set of workers using
// consistent hashing on the policy id, guaranteeing per-policy delivery
// ordering.
type Dispatcher struct {
	workers  []chan ports.ReminderEvent
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.ReminderEvent, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReminderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its policy.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.ReminderEvent) {
	d.workers[d.shardIndex(event.PolicyID)] <- event
}

// shardIndex maps a policy id deterministically to a worker index.
func (d *Dispatcher) shardIndex(policyID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(policyID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReminderEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.Notify(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("policy_id", event.PolicyID).
					Int("worker_id", id).
					Msg("reminder delivery failed")
			}
		}
	}
}
