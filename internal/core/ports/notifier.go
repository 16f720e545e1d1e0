package ports

import "context"

// ReminderEvent is the outbound expiry notification handed to the delivery
// adapter. The core decides wording and when to emit; delivery is external.
type ReminderEvent struct {
	PolicyID string
	Title    string
	Body     string
}

// Notifier delivers reminder events. Push, local notification, or mail is
// the adapter's choice.
type Notifier interface {
	Notify(ctx context.Context, event ReminderEvent) error
}

// ReminderDedup suppresses repeat notifications for the same policy within
// the same day, so re-running the scan never double-fires.
type ReminderDedup interface {
	// AlreadySent reports whether a reminder for the policy went out on the
	// given day (YYYY-MM-DD).
	AlreadySent(ctx context.Context, policyID, day string) (bool, error)

	// MarkSent records that a reminder went out.
	MarkSent(ctx context.Context, policyID, day string) error
}
