package cartsync

import (
	"context"
	"kenyaMart/domain"
	"kenyaMart/pkg/changefeed"
	"kenyaMart/pkg/eventbus"
	"kenyaMart/pkg/logger"
	"kenyaMart/pkg/metrics"
	"log/slog"
	"sync"
)

const (
	triggerInitial = "initial"
	triggerLocal   = "local"
	triggerFeed    = "feed"
)

type Aggregator interface {
	ComputeSummary(ctx context.Context, owner string) (domain.CartSummary, error)
}

type ChangeFeed interface {
	Subscribe(ctx context.Context, filter domain.ChangeFilter) (*changefeed.Subscription, error)
}

type Option func(*SyncClient)

// WithOnChange registers fn to be called with the new count after every
// recomputation, including the reset to zero on sign out.
func WithOnChange(fn func(count int)) Option {
	return func(c *SyncClient) { c.onChange = fn }
}

type session struct {
	gen    uint64
	owner  string
	cancel context.CancelFunc
	done   chan struct{}

	local       chan struct{}
	unsubscribe func()
	sub         *changefeed.Subscription
}

// SyncClient keeps the cart count of the current session fresh. Two
// independent triggers feed one recomputation: cart.changed on the local
// event bus and the store's change feed for the owner's cart rows. Every
// trigger re-reads the full summary; nothing is counted incrementally.
type SyncClient struct {
	aggregator Aggregator
	bus        *eventbus.Bus
	feed       ChangeFeed
	onChange   func(count int)

	lifecycle sync.Mutex
	current   *session

	mu      sync.RWMutex
	gen     uint64
	summary domain.CartSummary
}

func NewSyncClient(aggregator Aggregator, bus *eventbus.Bus, feed ChangeFeed, opts ...Option) *SyncClient {
	c := &SyncClient{
		aggregator: aggregator,
		bus:        bus,
		feed:       feed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count is the last computed item count, zero when signed out.
func (c *SyncClient) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summary.Count
}

func (c *SyncClient) Summary() domain.CartSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summary
}

// Owner is the owner of the running session, empty when signed out.
func (c *SyncClient) Owner() string {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.owner
}

// SetSession switches the client to owner. The previous session, if any,
// is torn down first. An empty owner means signed out: the count resets to
// zero and no listener stays registered. For a signed in owner the count
// is recomputed once before SetSession returns; a failure of that first
// read is returned but the listeners stay active.
func (c *SyncClient) SetSession(ctx context.Context, owner string) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.stopLocked()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.summary = domain.CartSummary{Owner: owner}
	c.mu.Unlock()

	if owner == "" {
		c.notify(0)
		return nil
	}

	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &session{
		gen:    gen,
		owner:  owner,
		cancel: cancel,
		done:   make(chan struct{}),
		local:  make(chan struct{}, 1),
	}

	if c.bus != nil {
		s.unsubscribe = c.bus.Subscribe(eventbus.CartChanged(owner), func() {
			select {
			case s.local <- struct{}{}:
			default:
			}
		})
	}

	if c.feed != nil {
		sub, err := c.feed.Subscribe(sctx, domain.ChangeFilter{Table: domain.TableCartItems, Owner: owner})
		if err != nil {
			logger.Warn("Cart change feed unavailable, only local changes will refresh the count",
				slog.String("owner", owner), slog.Any("error", err))
		} else {
			s.sub = sub
		}
	}

	c.current = s
	metrics.CartSyncSessions.Inc()

	err := c.recompute(sctx, s, triggerInitial)

	go c.loop(sctx, s)

	return err
}

// Follow applies every owner received from sessions until ctx ends or the
// channel closes, then closes the client.
func (c *SyncClient) Follow(ctx context.Context, sessions <-chan string) {
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case owner, ok := <-sessions:
			if !ok {
				return
			}
			if err := c.SetSession(ctx, owner); err != nil {
				logger.Error("Failed to load cart count", slog.String("owner", owner), slog.Any("error", err))
			}
		}
	}
}

// Close ends the session and resets the count.
func (c *SyncClient) Close() {
	_ = c.SetSession(context.Background(), "")
}

func (c *SyncClient) stopLocked() {
	s := c.current
	if s == nil {
		return
	}
	c.current = nil

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.sub != nil {
		_ = s.sub.Close()
	}
	s.cancel()
	<-s.done
	metrics.CartSyncSessions.Dec()
}

func (c *SyncClient) loop(ctx context.Context, s *session) {
	defer close(s.done)

	var feedEvents <-chan domain.ChangeEvent
	if s.sub != nil {
		feedEvents = s.sub.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.local:
			_ = c.recompute(ctx, s, triggerLocal)
		case _, ok := <-feedEvents:
			if !ok {
				feedEvents = nil
				continue
			}
			_ = c.recompute(ctx, s, triggerFeed)
		}
	}
}

// recompute replaces the cached summary with a fresh one. On failure the
// previous value stays in place.
func (c *SyncClient) recompute(ctx context.Context, s *session, trigger string) error {
	metrics.CartSyncRecomputes.WithLabelValues(trigger).Inc()

	summary, err := c.aggregator.ComputeSummary(ctx, s.owner)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("Failed to recompute cart count", slog.String("owner", s.owner), slog.String("trigger", trigger), slog.Any("error", err))
		}
		return err
	}

	c.mu.Lock()
	if c.gen != s.gen {
		c.mu.Unlock()
		return nil
	}
	c.summary = summary
	c.mu.Unlock()

	c.notify(summary.Count)
	return nil
}

func (c *SyncClient) notify(count int) {
	if c.onChange != nil {
		c.onChange(count)
	}
}
