package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Reminders expire after two days: long enough to cover a full scan cycle,
// short enough that the next day's reminder fires again.
const reminderTTL = 48 * time.Hour

// ReminderDedup suppresses duplicate expiry reminders backed by Redis.
// Key format: reminder:<policy_id>:<YYYY-MM-DD>
type ReminderDedup struct {
	client *redis.Client
}

// NewReminderDedup creates a ReminderDedup wrapping the given Redis client.
func NewReminderDedup(client *redis.Client) *ReminderDedup {
	return &ReminderDedup{client: client}
}

// AlreadySent reports whether a reminder for this policy already went out on
// the given day.
func (d *ReminderDedup) AlreadySent(ctx context.Context, policyID, day string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(policyID, day)).Result()
	if err != nil {
		return false, fmt.Errorf("reminder dedup check: %w", err)
	}
	return n > 0, nil
}

// MarkSent records that a reminder went out (expires after reminderTTL).
func (d *ReminderDedup) MarkSent(ctx context.Context, policyID, day string) error {
	return d.client.Set(ctx, d.key(policyID, day), "1", reminderTTL).Err()
}

func (d *ReminderDedup) key(policyID, day string) string {
	return fmt.Sprintf("reminder:%s:%s", policyID, day)
}
