package orders

import (
	"context"
	"fmt"
	"kenyaMart/domain"
	"kenyaMart/pkg/logger"
	"log/slog"
)

type OrdersRepository interface {
	FindByIDAndOwner(ctx context.Context, id, owner string) (domain.Order, bool, error)
	FindByOwner(ctx context.Context, owner string) ([]domain.Order, error)
}

type OrderItemsRepository interface {
	FindByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
}

// OrdersService is the read side of orders. Orders are only ever written
// by checkout.
type OrdersService struct {
	orderRepo     OrdersRepository
	orderItemRepo OrderItemsRepository
}

func NewOrdersService(orderRepo OrdersRepository, orderItemRepo OrderItemsRepository) *OrdersService {
	return &OrdersService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
	}
}

// ListOrders returns the owner's orders, newest first, without items.
func (s *OrdersService) ListOrders(ctx context.Context, owner string) ([]domain.Order, error) {
	if owner == "" {
		return nil, domain.ErrUnauthenticated
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing orders")
		return nil, fmt.Errorf("context error: %w", err)
	}

	orders, err := s.orderRepo.FindByOwner(ctx, owner)
	if err != nil {
		logger.Error("Failed to list orders", slog.String("owner", owner), slog.Any("error", err))
		return nil, domain.ReadFailure("list orders", err)
	}

	return orders, nil
}

// GetOrder returns one order with its items. Orders of other owners are
// reported as not found.
func (s *OrdersService) GetOrder(ctx context.Context, id, owner string) (domain.Order, error) {
	if owner == "" {
		return domain.Order{}, domain.ErrUnauthenticated
	}

	order, found, err := s.orderRepo.FindByIDAndOwner(ctx, id, owner)
	if err != nil {
		logger.Error("Failed to find order", slog.String("order_id", id), slog.Any("error", err))
		return domain.Order{}, domain.ReadFailure("find order", err)
	}
	if !found {
		return domain.Order{}, domain.ErrNotFound
	}

	items, err := s.orderItemRepo.FindByOrder(ctx, order.ID)
	if err != nil {
		logger.Error("Failed to fetch order items", slog.String("order_id", id), slog.Any("error", err))
		return domain.Order{}, domain.ReadFailure("list order items", err)
	}
	order.Items = items

	return order, nil
}
