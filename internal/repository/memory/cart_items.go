package memory

import (
	"context"
	"kenyaMart/domain"

	"github.com/google/uuid"
)

type CartItemRepository struct {
	s *Store
}

func (r *CartItemRepository) FindByOwner(ctx context.Context, owner string) ([]domain.CartItem, error) {
	if err := r.s.before(ctx, OpCartSelectByOwner); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]domain.CartItem, 0)
	for _, it := range r.s.cartItems {
		if it.Owner == owner {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *CartItemRepository) FindByOwnerAndProduct(ctx context.Context, owner, productID string) (domain.CartItem, bool, error) {
	if err := r.s.before(ctx, OpCartSelectOne); err != nil {
		return domain.CartItem{}, false, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, it := range r.s.cartItems {
		if it.Owner == owner && it.ProductID == productID {
			return it, true, nil
		}
	}
	return domain.CartItem{}, false, nil
}

func (r *CartItemRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if err := r.s.before(ctx, OpCartInsert); err != nil {
		return err
	}

	r.s.mu.Lock()
	for _, it := range r.s.cartItems {
		if it.Owner == item.Owner && it.ProductID == item.ProductID {
			r.s.mu.Unlock()
			return ErrDuplicateCartItem
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	r.s.cartItems[item.ID] = *item
	r.s.mu.Unlock()

	r.s.publish(domain.ChangeEvent{
		Table: domain.TableCartItems,
		Owner: item.Owner,
		Op:    domain.ChangeInsert,
		RowID: item.ID,
	})
	return nil
}

// UpdateQuantity matching no row is not an error.
func (r *CartItemRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if err := r.s.before(ctx, OpCartUpdate); err != nil {
		return err
	}

	r.s.mu.Lock()
	it, ok := r.s.cartItems[id]
	if ok {
		it.Quantity = quantity
		r.s.cartItems[id] = it
	}
	r.s.mu.Unlock()

	if ok {
		r.s.publish(domain.ChangeEvent{
			Table: domain.TableCartItems,
			Owner: it.Owner,
			Op:    domain.ChangeUpdate,
			RowID: id,
		})
	}
	return nil
}

func (r *CartItemRepository) Delete(ctx context.Context, id string) error {
	if err := r.s.before(ctx, OpCartDelete); err != nil {
		return err
	}

	r.s.mu.Lock()
	it, ok := r.s.cartItems[id]
	delete(r.s.cartItems, id)
	r.s.mu.Unlock()

	if ok {
		r.s.publish(domain.ChangeEvent{
			Table: domain.TableCartItems,
			Owner: it.Owner,
			Op:    domain.ChangeDelete,
			RowID: id,
		})
	}
	return nil
}

func (r *CartItemRepository) DeleteByOwner(ctx context.Context, owner string) error {
	if err := r.s.before(ctx, OpCartDeleteByOwner); err != nil {
		return err
	}

	var deleted []string
	r.s.mu.Lock()
	for id, it := range r.s.cartItems {
		if it.Owner == owner {
			delete(r.s.cartItems, id)
			deleted = append(deleted, id)
		}
	}
	r.s.mu.Unlock()

	for _, id := range deleted {
		r.s.publish(domain.ChangeEvent{
			Table: domain.TableCartItems,
			Owner: owner,
			Op:    domain.ChangeDelete,
			RowID: id,
		})
	}
	return nil
}
