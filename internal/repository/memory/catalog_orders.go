package memory

import (
	"context"
	"sort"

	"kenyaMart/domain"

	"github.com/google/uuid"
)

type ProductRepository struct {
	s *Store
}

// Save inserts or replaces a product. It is how the catalog is seeded;
// products are read-only to the rest of the service.
func (r *ProductRepository) Save(p domain.Product) domain.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	r.s.products[p.ID] = p
	return p
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, bool, error) {
	if err := r.s.before(ctx, OpProductSelectOne); err != nil {
		return domain.Product{}, false, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	return p, ok, nil
}

func (r *ProductRepository) FindLatest(ctx context.Context, limit int) ([]domain.Product, error) {
	if err := r.s.before(ctx, OpProductSelectLatest); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	products := make([]domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, p)
	}
	r.s.mu.RUnlock()

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

type OrdersRepository struct {
	s *Store
}

func (r *OrdersRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.s.before(ctx, OpOrderInsert); err != nil {
		return err
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.s.now()
	}

	r.s.mu.Lock()
	row := *order
	row.Items = nil
	r.s.orders[order.ID] = row
	r.s.mu.Unlock()
	return nil
}

func (r *OrdersRepository) FindByIDAndOwner(ctx context.Context, id, owner string) (domain.Order, bool, error) {
	if err := r.s.before(ctx, OpOrderSelectOne); err != nil {
		return domain.Order{}, false, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok || o.Owner != owner {
		return domain.Order{}, false, nil
	}
	return o, true, nil
}

func (r *OrdersRepository) FindByOwner(ctx context.Context, owner string) ([]domain.Order, error) {
	if err := r.s.before(ctx, OpOrderSelectByOwner); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	orders := make([]domain.Order, 0)
	for _, o := range r.s.orders {
		if o.Owner == owner {
			orders = append(orders, o)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

type OrderItemsRepository struct {
	s *Store
}

// CreateBatch inserts all rows or none.
func (r *OrderItemsRepository) CreateBatch(ctx context.Context, items []domain.OrderItem) error {
	if err := r.s.before(ctx, OpOrderItemsInsert); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		r.s.orderItems[items[i].OrderID] = append(r.s.orderItems[items[i].OrderID], items[i])
	}
	return nil
}

func (r *OrderItemsRepository) FindByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	if err := r.s.before(ctx, OpOrderItemsByOrder); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]domain.OrderItem, len(r.s.orderItems[orderID]))
	copy(items, r.s.orderItems[orderID])
	return items, nil
}
