// Package eventbus is the in-process publish/subscribe channel used to tell
// interested components that some state changed and should be re-read.
// Events carry no payload.
package eventbus

import "sync"

// TopicCartChanged prefixes the per owner topic published after every
// successful cart mutation.
const TopicCartChanged = "cart.changed"

// CartChanged is the topic for owner's cart. Only that owner's sessions
// subscribe to it.
func CartChanged(owner string) string {
	return TopicCartChanged + ":" + owner
}

type Handler func()

type subscriber struct {
	id uint64
	fn Handler
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Handlers must not block.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber
}

func New() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe registers fn for topic. The returned func removes the
// registration and is safe to call more than once.
func (b *Bus) Subscribe(topic string, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}

func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn()
	}
}

// Subscribers reports how many handlers are registered for topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
