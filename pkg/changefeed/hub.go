package changefeed

import (
	"context"
	"sync"

	"kenyaMart/domain"
)

// Hub fans events out to subscriptions inside one process.
type Hub struct {
	buffer int

	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription
}

func NewHub(buffer int) *Hub {
	return &Hub{
		buffer: buffer,
		subs:   make(map[uint64]*Subscription),
	}
}

// Subscribe returns a subscription that is closed when ctx ends or when
// the caller closes it.
func (h *Hub) Subscribe(ctx context.Context, filter domain.ChangeFilter) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	sub := NewSubscription(filter, h.buffer, func() error {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		return nil
	})
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub, nil
}

func (h *Hub) Publish(_ context.Context, ev domain.ChangeEvent) error {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		s.Offer(ev)
	}
	return nil
}

// Subscribers reports how many subscriptions are open.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
