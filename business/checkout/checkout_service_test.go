//go:build !integration

package checkout_test

import (
	"context"
	"errors"
	"kenyaMart/business/cart"
	"kenyaMart/business/checkout"
	"kenyaMart/domain"
	"kenyaMart/internal/repository/memory"
	"kenyaMart/pkg/eventbus"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("connection refused")

type fixture struct {
	store     *memory.Store
	bus       *eventbus.Bus
	published *atomic.Int32
	cart      *cart.CartService
	checkout  *checkout.CheckoutService
	milk      domain.Product
	bread     domain.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.New()
	bus := eventbus.New()
	agg := cart.NewAggregator(store.CartItems(), store.Products(), 0)

	f := fixture{
		store:     store,
		bus:       bus,
		published: &atomic.Int32{},
		cart:      cart.NewCartService(store.CartItems(), bus),
		checkout:  checkout.NewCheckoutService(agg, store.Orders(), store.OrderItems(), store.CartItems(), bus),
		milk:      store.Products().Save(domain.Product{Name: "Milk", Price: decimal.RequireFromString("65.50"), Stock: 20}),
		bread:     store.Products().Save(domain.Product{Name: "Bread", Price: decimal.NewFromInt(60), Stock: 10}),
	}

	ctx := context.Background()
	if _, err := f.cart.AddToCart(ctx, "u1", f.milk.ID, 2); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.cart.AddToCart(ctx, "u1", f.bread.ID, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(bus.Subscribe(eventbus.CartChanged("u1"), func() { f.published.Add(1) }))
	return f
}

func failOn(target string) memory.Hook {
	return func(_ context.Context, op string) error {
		if op == target {
			return errStoreDown
		}
		return nil
	}
}

func (f fixture) cartRows(t *testing.T) int {
	t.Helper()
	items, err := f.store.CartItems().FindByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return len(items)
}

func (f fixture) orders(t *testing.T) []domain.Order {
	t.Helper()
	orders, err := f.store.Orders().FindByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return orders
}

func (f fixture) orderItems(t *testing.T, orderID string) []domain.OrderItem {
	t.Helper()
	items, err := f.store.OrderItems().FindByOrder(context.Background(), orderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return items
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture(t)

	res, err := f.checkout.PlaceOrder(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State != checkout.StateCartCleared || res.OrderID == "" {
		t.Fatalf("unexpected result: %+v", res)
	}

	orders := f.orders(t)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	order := orders[0]
	if !order.TotalAmount.Equal(decimal.NewFromInt(191)) {
		t.Fatalf("total = %s, want 191", order.TotalAmount)
	}
	if order.Status != domain.OrderStatusPending || order.PaymentMethod != domain.PaymentMethodCashOnDelivery {
		t.Fatalf("unexpected order: %+v", order)
	}

	items := f.orderItems(t, res.OrderID)
	if len(items) != 2 {
		t.Fatalf("order items = %d, want 2", len(items))
	}
	for _, it := range items {
		switch it.ProductID {
		case f.milk.ID:
			if it.Quantity != 2 || !it.Price.Equal(f.milk.Price) {
				t.Fatalf("unexpected milk item: %+v", it)
			}
		case f.bread.ID:
			if it.Quantity != 1 || !it.Price.Equal(f.bread.Price) {
				t.Fatalf("unexpected bread item: %+v", it)
			}
		default:
			t.Fatalf("unexpected product %s", it.ProductID)
		}
	}

	if f.cartRows(t) != 0 {
		t.Fatal("cart must be empty after checkout")
	}
	if f.published.Load() != 1 {
		t.Fatalf("cart.changed published %d times, want 1", f.published.Load())
	}
}

func TestPlaceOrder_PriceIsSnapshotted(t *testing.T) {
	f := newFixture(t)

	res, err := f.checkout.PlaceOrder(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.milk.Price = decimal.NewFromInt(99)
	f.store.Products().Save(f.milk)

	for _, it := range f.orderItems(t, res.OrderID) {
		if it.ProductID == f.milk.ID && !it.Price.Equal(decimal.RequireFromString("65.50")) {
			t.Fatalf("historical price changed to %s", it.Price)
		}
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)

	res, err := f.checkout.PlaceOrder(context.Background(), "u2")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if res.State != checkout.StateIdle {
		t.Fatalf("state = %s", res.State)
	}
	if _, err := f.checkout.PlaceOrder(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPlaceOrder_CreateOrderFails(t *testing.T) {
	f := newFixture(t)
	f.store.SetHook(failOn(memory.OpOrderInsert))

	res, err := f.checkout.PlaceOrder(context.Background(), "u1")
	if !errors.Is(err, checkout.ErrCreateOrder) || !errors.Is(err, domain.ErrRemoteWrite) {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State != checkout.StateFailed || res.Reached != checkout.StateIdle || res.OrderID != "" {
		t.Fatalf("unexpected result: %+v", res)
	}

	f.store.SetHook(nil)
	if len(f.orders(t)) != 0 || f.cartRows(t) != 2 {
		t.Fatal("nothing may be written when the order insert fails")
	}
	if f.published.Load() != 0 {
		t.Fatal("failed checkout must not publish")
	}
}

func TestPlaceOrder_OrderItemsFailLeavesOrphanOrder(t *testing.T) {
	f := newFixture(t)
	f.store.SetHook(failOn(memory.OpOrderItemsInsert))

	res, err := f.checkout.PlaceOrder(context.Background(), "u1")
	if !errors.Is(err, checkout.ErrWriteOrderItems) || !errors.Is(err, errStoreDown) {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reached != checkout.StateOrderCreated || res.OrderID == "" {
		t.Fatalf("unexpected result: %+v", res)
	}

	f.store.SetHook(nil)
	orders := f.orders(t)
	if len(orders) != 1 || orders[0].ID != res.OrderID {
		t.Fatal("the order row must persist")
	}
	if len(f.orderItems(t, res.OrderID)) != 0 {
		t.Fatal("orphan order must have no items")
	}
	if f.cartRows(t) != 2 {
		t.Fatal("cart must be untouched")
	}
}

func TestPlaceOrder_ClearCartFailsAndRetryDuplicates(t *testing.T) {
	f := newFixture(t)
	f.store.SetHook(failOn(memory.OpCartDeleteByOwner))

	res, err := f.checkout.PlaceOrder(context.Background(), "u1")
	if !errors.Is(err, checkout.ErrClearCart) || !errors.Is(err, domain.ErrRemoteWrite) {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reached != checkout.StateItemsWritten {
		t.Fatalf("reached = %s", res.Reached)
	}

	f.store.SetHook(nil)
	if len(f.orderItems(t, res.OrderID)) != 2 || f.cartRows(t) != 2 {
		t.Fatal("order must be complete and cart still full")
	}

	retry, err := f.checkout.PlaceOrder(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retry.OrderID == res.OrderID {
		t.Fatal("retry must create a second order")
	}
	if n := len(f.orders(t)); n != 2 {
		t.Fatalf("orders = %d, want the duplicate 2", n)
	}
}

func TestPlaceOrder_CartReadFails(t *testing.T) {
	f := newFixture(t)
	f.store.SetHook(failOn(memory.OpCartSelectByOwner))

	res, err := f.checkout.PlaceOrder(context.Background(), "u1")
	if !errors.Is(err, domain.ErrRemoteRead) {
		t.Fatalf("expected ErrRemoteRead, got %v", err)
	}
	if res.Reached != checkout.StateIdle {
		t.Fatalf("reached = %s", res.Reached)
	}
}
