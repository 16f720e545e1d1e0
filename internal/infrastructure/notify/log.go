// Package notify provides reminder delivery adapters. The log notifier is
// the default sink; push or email transports plug in behind the same port.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

// LogNotifier writes reminder events to the structured log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, event ports.ReminderEvent) error {
	n.log.Info().
		Str("policy_id", event.PolicyID).
		Str("title", event.Title).
		Str("body", event.Body).
		Msg("reminder")
	return nil
}
