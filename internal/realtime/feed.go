package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Feed event kinds published on the posts topic.
const (
	TopicPosts = "feed:posts"

	EventPostCreated = "post_created"
	EventPostDeleted = "post_deleted"
)

// Event is what subscribers receive when the social feed changes.
type Event struct {
	Kind      string    `json:"kind"`
	PostID    int64     `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CancelFunc stops a subscription and releases its connection.
type CancelFunc func()

// FeedBroker fans feed events out over Redis pub/sub. Subscriptions are
// explicit: Subscribe returns a cancel func, there is no ambient
// callback registry.
type FeedBroker struct {
	client *redis.Client
	logger *slog.Logger
}

func NewFeedBroker(client *redis.Client, logger *slog.Logger) *FeedBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedBroker{client: client, logger: logger}
}

// Publish sends an event to every subscriber of the topic. Publishing
// is best effort: a broker failure is logged, not surfaced, so a feed
// hiccup never fails the write that triggered it.
func (b *FeedBroker) Publish(ctx context.Context, topic string, event Event) {
	if b == nil || b.client == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("feed_event_marshal_failed", "kind", event.Kind, "error", err)
		return
	}
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		b.logger.Error("feed_event_publish_failed", "kind", event.Kind, "error", err)
	}
}

// Subscribe registers a handler for a topic. The handler runs on a
// dedicated goroutine until the returned cancel func is called.
func (b *FeedBroker) Subscribe(topic string, handler func(Event)) CancelFunc {
	if b == nil || b.client == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.client.Subscribe(ctx, topic)

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn("feed_event_decode_failed", "error", err)
					continue
				}
				handler(event)
			}
		}
	}()

	return func() {
		cancel()
		if err := sub.Close(); err != nil {
			b.logger.Warn("feed_subscription_close_failed", "error", err)
		}
	}
}
