// Package changefeed carries "row changed" notifications from the store to
// subscribers scoped by table and owner.
package changefeed

import (
	"sync"

	"kenyaMart/domain"
)

// Subscription is one filtered stream of change events. Delivery never
// blocks the publisher: when the buffer is full the event is dropped, which
// is harmless because a pending event already forces a re-read.
type Subscription struct {
	filter domain.ChangeFilter

	mu      sync.Mutex
	closed  bool
	events  chan domain.ChangeEvent
	onClose func() error
}

func NewSubscription(filter domain.ChangeFilter, buffer int, onClose func() error) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	return &Subscription{
		filter:  filter,
		events:  make(chan domain.ChangeEvent, buffer),
		onClose: onClose,
	}
}

func (s *Subscription) Filter() domain.ChangeFilter {
	return s.filter
}

// Events is closed after Close.
func (s *Subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

// Offer delivers ev if it matches the filter and the subscription is open.
func (s *Subscription) Offer(ev domain.ChangeEvent) bool {
	if !s.filter.Matches(ev) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

func (s *Subscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	if s.onClose != nil {
		return s.onClose()
	}
	return nil
}
