package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"kenyaMart/domain"
	"kenyaMart/pkg/changefeed"
	"kenyaMart/pkg/logger"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ChangeFeed carries cart row changes between service instances over redis
// pub/sub. Each (table, owner) pair has its own channel so a subscriber only
// receives its owner's rows.
type ChangeFeed struct {
	client *redis.Client
	buffer int

	mu   sync.Mutex
	open int
}

func NewChangeFeed(client *redis.Client, buffer int) *ChangeFeed {
	return &ChangeFeed{
		client: client,
		buffer: buffer,
	}
}

// key format: "changes:{table}:{owner}"
func channelName(table, owner string) string {
	return fmt.Sprintf("changes:%s:%s", table, owner)
}

func (f *ChangeFeed) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := f.client.Publish(ctx, channelName(ev.Table, ev.Owner), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Subscribe returns once redis has confirmed the subscription, so no change
// published after it returns is missed.
func (f *ChangeFeed) Subscribe(ctx context.Context, filter domain.ChangeFilter) (*changefeed.Subscription, error) {
	if filter.Table == "" || filter.Owner == "" {
		return nil, fmt.Errorf("change feed filter needs table and owner: %+v", filter)
	}

	ps := f.client.Subscribe(ctx, channelName(filter.Table, filter.Owner))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to change feed: %w", err)
	}

	sub := changefeed.NewSubscription(filter, f.buffer, func() error {
		f.mu.Lock()
		f.open--
		f.mu.Unlock()
		return ps.Close()
	})

	f.mu.Lock()
	f.open++
	f.mu.Unlock()

	go func() {
		defer sub.Close()

		messages := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Warn("Dropping malformed change event", slog.String("channel", msg.Channel), slog.Any("error", err))
					continue
				}
				sub.Offer(ev)
			}
		}
	}()

	return sub, nil
}

// Subscribers reports how many subscriptions are open on this instance.
func (f *ChangeFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}
