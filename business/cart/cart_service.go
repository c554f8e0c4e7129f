package cart

import (
	"context"
	"kenyaMart/domain"
	"kenyaMart/pkg/eventbus"
	"kenyaMart/pkg/logger"
	"kenyaMart/pkg/metrics"
	"log/slog"
)

type Option func(*CartService)

// WithSerializedWrites makes AddToCart of the same owner run one at a time
// in this process. Without it two concurrent adds can both read the same
// row and one increment is lost.
func WithSerializedWrites() Option {
	return func(s *CartService) {
		s.ownerLocks = newKeyedMutex()
	}
}

// CartService applies merge-or-insert and direct edits to cart rows and
// announces every successful change on the event bus.
type CartService struct {
	cartRepo   CartItemRepository
	bus        *eventbus.Bus
	ownerLocks *keyedMutex
}

func NewCartService(cartRepo CartItemRepository, bus *eventbus.Bus, opts ...Option) *CartService {
	s := &CartService{
		cartRepo: cartRepo,
		bus:      bus,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddOne adds a single unit of a product, as the product card does.
func (s *CartService) AddOne(ctx context.Context, owner, productID string) (domain.CartItem, error) {
	return s.AddToCart(ctx, owner, productID, 1)
}

// AddToCart merges quantity into the owner's row for productID, inserting
// the row when there is none. The lookup and the write are separate store
// calls with nothing guarding the gap between them.
func (s *CartService) AddToCart(ctx context.Context, owner, productID string, quantity int) (domain.CartItem, error) {
	if owner == "" {
		return domain.CartItem{}, domain.ErrUnauthenticated
	}
	if quantity < 1 {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}

	if s.ownerLocks != nil {
		unlock := s.ownerLocks.Lock(owner)
		defer unlock()
	}

	existing, found, err := s.cartRepo.FindByOwnerAndProduct(ctx, owner, productID)
	if err != nil {
		logger.Error("Failed to look up cart item", slog.String("owner", owner), slog.String("product_id", productID), slog.Any("error", err))
		metrics.CartMutations.WithLabelValues("add", "read_error").Inc()
		return domain.CartItem{}, domain.ReadFailure("find cart item", err)
	}

	if found {
		newQuantity := existing.Quantity + quantity
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			logger.Error("Failed to update cart", slog.String("item_id", existing.ID), slog.Any("error", err))
			metrics.CartMutations.WithLabelValues("add", "write_error").Inc()
			return domain.CartItem{}, domain.WriteFailure("update cart item", err)
		}
		existing.Quantity = newQuantity
		s.changed(owner, "add")
		return existing, nil
	}

	item := domain.CartItem{
		Owner:     owner,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(ctx, &item); err != nil {
		logger.Error("Failed to add to cart", slog.String("owner", owner), slog.String("product_id", productID), slog.Any("error", err))
		metrics.CartMutations.WithLabelValues("add", "write_error").Inc()
		return domain.CartItem{}, domain.WriteFailure("insert cart item", err)
	}

	s.changed(owner, "add")
	return item, nil
}

// SetQuantity overwrites the stored quantity of owner's row. A quantity below one is
// ignored without touching the store. Stock is not checked here; callers
// at the API boundary run ValidateQuantityChange first.
func (s *CartService) SetQuantity(ctx context.Context, owner, itemID string, quantity int) error {
	if quantity < 1 {
		logger.Debug("Ignoring cart quantity below one", slog.String("item_id", itemID), slog.Int("quantity", quantity))
		return nil
	}

	if err := s.cartRepo.UpdateQuantity(ctx, itemID, quantity); err != nil {
		logger.Error("Failed to update quantity", slog.String("item_id", itemID), slog.Any("error", err))
		metrics.CartMutations.WithLabelValues("set_quantity", "write_error").Inc()
		return domain.WriteFailure("update cart item", err)
	}

	s.changed(owner, "set_quantity")
	return nil
}

// RemoveItem deletes one row. owner names whose sessions are told.
func (s *CartService) RemoveItem(ctx context.Context, owner, itemID string) error {
	if err := s.cartRepo.Delete(ctx, itemID); err != nil {
		logger.Error("Failed to remove item", slog.String("item_id", itemID), slog.Any("error", err))
		metrics.CartMutations.WithLabelValues("remove", "write_error").Inc()
		return domain.WriteFailure("delete cart item", err)
	}

	s.changed(owner, "remove")
	return nil
}

// FindItem returns the owner's row with itemID. A row of another owner is
// reported as not found.
func (s *CartService) FindItem(ctx context.Context, owner, itemID string) (domain.CartItem, error) {
	if owner == "" {
		return domain.CartItem{}, domain.ErrUnauthenticated
	}

	items, err := s.cartRepo.FindByOwner(ctx, owner)
	if err != nil {
		logger.Error("Failed to fetch cart", slog.String("owner", owner), slog.Any("error", err))
		return domain.CartItem{}, domain.ReadFailure("list cart items", err)
	}
	for _, it := range items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return domain.CartItem{}, domain.ErrNotFound
}

func (s *CartService) changed(owner, op string) {
	metrics.CartMutations.WithLabelValues(op, "ok").Inc()
	if s.bus != nil {
		s.bus.Publish(eventbus.CartChanged(owner))
	}
}

