package postgres

import (
	"context"
	"errors"
	"fmt"
	"kenyaMart/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, false, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, false, nil
		}
		return domain.Product{}, false, fmt.Errorf("failed to find product: %w", err)
	}

	return product, true, nil
}

func (r *ProductRepository) FindLatest(ctx context.Context, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

func (r *OrdersRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrdersRepository) FindByIDAndOwner(ctx context.Context, id, owner string) (domain.Order, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, false, fmt.Errorf("context error: %w", err)
	}

	var order domain.Order
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Take(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, false, nil
		}
		return domain.Order{}, false, fmt.Errorf("failed to find order: %w", err)
	}

	return order, true, nil
}

func (r *OrdersRepository) FindByOwner(ctx context.Context, owner string) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var orders []domain.Order
	err := r.DB.WithContext(ctx).Where("user_id = ?", owner).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

type OrderItemsRepository struct {
	DB *gorm.DB
}

func NewOrderItemsRepository(db *gorm.DB) *OrderItemsRepository {
	return &OrderItemsRepository{
		DB: db,
	}
}

// CreateBatch is a single multi-row INSERT.
func (r *OrderItemsRepository) CreateBatch(ctx context.Context, items []domain.OrderItem) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	if err := r.DB.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}

	return nil
}

func (r *OrderItemsRepository) FindByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to find order items: %w", err)
	}

	return items, nil
}
