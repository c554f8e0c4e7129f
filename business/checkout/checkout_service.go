package checkout

import (
	"context"
	"errors"
	"fmt"
	"kenyaMart/domain"
	"kenyaMart/pkg/eventbus"
	"kenyaMart/pkg/logger"
	"kenyaMart/pkg/metrics"
	"log/slog"
)

// State is how far a checkout got. Steps only move forward; a failure
// stops the run where it is and nothing already written is undone.
type State string

const (
	StateIdle         State = "idle"
	StateOrderCreated State = "order_created"
	StateItemsWritten State = "items_written"
	StateCartCleared  State = "cart_cleared"
	StateFailed       State = "failed"
)

// Each step failure also matches domain.ErrRemoteWrite.
var (
	ErrCreateOrder     = errors.New("checkout: create order")
	ErrWriteOrderItems = errors.New("checkout: write order items")
	ErrClearCart       = errors.New("checkout: clear cart")
)

type CartReader interface {
	ComputeSummary(ctx context.Context, owner string) (domain.CartSummary, error)
}

type OrdersRepository interface {
	Create(ctx context.Context, order *domain.Order) error
}

type OrderItemsRepository interface {
	CreateBatch(ctx context.Context, items []domain.OrderItem) error
}

type CartClearer interface {
	DeleteByOwner(ctx context.Context, owner string) error
}

// Result describes a checkout run. OrderID is set once the order row
// exists, including when a later step failed and left it behind.
type Result struct {
	OrderID string
	State   State
	// Reached is the last state completed before a failure.
	Reached State
}

type CheckoutService struct {
	cart       CartReader
	orders     OrdersRepository
	orderItems OrderItemsRepository
	cartItems  CartClearer
	bus        *eventbus.Bus
}

func NewCheckoutService(cart CartReader, orders OrdersRepository, orderItems OrderItemsRepository, cartItems CartClearer, bus *eventbus.Bus) *CheckoutService {
	return &CheckoutService{
		cart:       cart,
		orders:     orders,
		orderItems: orderItems,
		cartItems:  cartItems,
		bus:        bus,
	}
}

// PlaceOrder turns the owner's cart into a pending cash on delivery order
// in three separate store writes: the order, its items, then the cart
// delete. An items failure leaves an order with no items. A clear failure
// leaves a complete order next to a full cart, so retrying duplicates it.
func (s *CheckoutService) PlaceOrder(ctx context.Context, owner string) (Result, error) {
	res := Result{State: StateIdle}

	if owner == "" {
		return res, domain.ErrUnauthenticated
	}

	summary, err := s.cart.ComputeSummary(ctx, owner)
	if err != nil {
		return s.fail(res, err)
	}
	if summary.IsEmpty() {
		logger.Warn("Checkout refused for empty cart", slog.String("owner", owner))
		return res, domain.ErrEmptyCart
	}

	order := domain.Order{
		Owner:         owner,
		TotalAmount:   summary.Total,
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCashOnDelivery,
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		logger.Error("Failed to create order", slog.String("owner", owner), slog.Any("error", err))
		return s.fail(res, fmt.Errorf("%w: %w", ErrCreateOrder, domain.WriteFailure("insert order", err)))
	}
	res.OrderID = order.ID
	res.State = StateOrderCreated

	items := make([]domain.OrderItem, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		items = append(items, domain.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	if err := s.orderItems.CreateBatch(ctx, items); err != nil {
		logger.Error("Failed to create order items", slog.String("order_id", order.ID), slog.Any("error", err))
		return s.fail(res, fmt.Errorf("%w: %w", ErrWriteOrderItems, domain.WriteFailure("insert order items", err)))
	}
	res.State = StateItemsWritten

	if err := s.cartItems.DeleteByOwner(ctx, owner); err != nil {
		logger.Error("Failed to clear cart", slog.String("owner", owner), slog.String("order_id", order.ID), slog.Any("error", err))
		return s.fail(res, fmt.Errorf("%w: %w", ErrClearCart, domain.WriteFailure("delete cart items", err)))
	}
	res.State = StateCartCleared

	if s.bus != nil {
		s.bus.Publish(eventbus.CartChanged(owner))
	}
	metrics.CheckoutOutcomes.WithLabelValues(string(StateCartCleared)).Inc()

	logger.Info("Order placed",
		slog.String("order_id", order.ID),
		slog.String("owner", owner),
		slog.Int("lines", len(items)),
		slog.String("total", order.TotalAmount.StringFixed(2)))

	return res, nil
}

func (s *CheckoutService) fail(res Result, err error) (Result, error) {
	res.Reached = res.State
	res.State = StateFailed
	metrics.CheckoutOutcomes.WithLabelValues("failed_at_" + string(res.Reached)).Inc()
	return res, err
}
