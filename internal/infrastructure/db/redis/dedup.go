package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// NotifyDedup suppresses duplicate notification sends backed by Redis.
// Key format: notify:<booking_id>:<event>
type NotifyDedup struct {
	client *redis.Client
}

// NewNotifyDedup creates a NotifyDedup wrapping the given Redis client.
func NewNotifyDedup(client *redis.Client) *NotifyDedup {
	return &NotifyDedup{client: client}
}

// IsDuplicate reports whether this booking/event pair was already sent.
func (d *NotifyDedup) IsDuplicate(ctx context.Context, bookingID, event string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(bookingID, event)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this booking/event pair was sent (expires after dedupTTL).
func (d *NotifyDedup) Mark(ctx context.Context, bookingID, event string) error {
	return d.client.Set(ctx, d.key(bookingID, event), "1", dedupTTL).Err()
}

func (d *NotifyDedup) key(bookingID, event string) string {
	return fmt.Sprintf("notify:%s:%s", bookingID, event)
}
