// Package memory is an in-process remote store: the four record
// collections plus a change feed on cart_items. Every call goes through an
// optional Hook so callers can fail or delay individual operations.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"kenyaMart/domain"
	"kenyaMart/pkg/changefeed"
)

// Operation names passed to Hook.
const (
	OpCartSelectByOwner = "cart_items.select_by_owner"
	OpCartSelectOne     = "cart_items.select_one"
	OpCartInsert        = "cart_items.insert"
	OpCartUpdate        = "cart_items.update"
	OpCartDelete        = "cart_items.delete"
	OpCartDeleteByOwner = "cart_items.delete_by_owner"

	OpProductSelectOne    = "products.select_one"
	OpProductSelectLatest = "products.select_latest"

	OpOrderInsert        = "orders.insert"
	OpOrderSelectOne     = "orders.select_one"
	OpOrderSelectByOwner = "orders.select_by_owner"

	OpOrderItemsInsert  = "order_items.insert"
	OpOrderItemsByOrder = "order_items.select_by_order"
)

var ErrDuplicateCartItem = errors.New(`duplicate key value violates unique constraint "idx_cart_items_owner_product"`)

// Hook runs before an operation touches the store. A non-nil error fails
// the operation with that error.
type Hook func(ctx context.Context, op string) error

type Option func(*Store)

func WithHook(h Hook) Option {
	return func(s *Store) { s.hook = h }
}

func WithFeedBuffer(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.feedBuffer = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	mu         sync.RWMutex
	cartItems  map[string]domain.CartItem
	products   map[string]domain.Product
	orders     map[string]domain.Order
	orderItems map[string][]domain.OrderItem

	hookMu sync.RWMutex
	hook   Hook

	now        func() time.Time
	feedBuffer int
	hub        *changefeed.Hub
}

func New(opts ...Option) *Store {
	s := &Store{
		cartItems:  make(map[string]domain.CartItem),
		products:   make(map[string]domain.Product),
		orders:     make(map[string]domain.Order),
		orderItems: make(map[string][]domain.OrderItem),
		now:        time.Now,
		feedBuffer: 16,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = changefeed.NewHub(s.feedBuffer)
	return s
}

// SetHook replaces the hook; nil removes it.
func (s *Store) SetHook(h Hook) {
	s.hookMu.Lock()
	s.hook = h
	s.hookMu.Unlock()
}

func (s *Store) before(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.hookMu.RLock()
	h := s.hook
	s.hookMu.RUnlock()

	if h == nil {
		return nil
	}
	return h(ctx, op)
}

func (s *Store) CartItems() *CartItemRepository {
	return &CartItemRepository{s: s}
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func (s *Store) Orders() *OrdersRepository {
	return &OrdersRepository{s: s}
}

func (s *Store) OrderItems() *OrderItemsRepository {
	return &OrderItemsRepository{s: s}
}

// Feed is the change feed of cart_items.
func (s *Store) Feed() *changefeed.Hub {
	return s.hub
}

func (s *Store) publish(ev domain.ChangeEvent) {
	ev.At = s.now()
	_ = s.hub.Publish(context.Background(), ev)
}
