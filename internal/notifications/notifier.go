package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes engagement events into the Redis channel consumed by
// the mail worker. With no Redis client it degrades to a silent no-op so
// the request path never depends on notification delivery.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishCommentCreated announces a new comment on a product.
func (n *Notifier) PublishCommentCreated(ctx context.Context, productID uint, author, text string) error {
	return n.publish(ctx, Event{
		Type:      EventCommentCreated,
		ProductID: productID,
		Author:    author,
		Text:      text,
	})
}

// PublishFirstLike announces a visitor's first like on a product.
// Repeated likes from the same visitor do not publish again.
func (n *Notifier) PublishFirstLike(ctx context.Context, productID uint) error {
	return n.publish(ctx, Event{
		Type:      EventFirstLike,
		ProductID: productID,
	})
}

func (n *Notifier) publish(ctx context.Context, ev Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, EngagementChannel, payload).Err()
}
