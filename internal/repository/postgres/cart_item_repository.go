package postgres

import (
	"context"
	"errors"
	"fmt"
	"kenyaMart/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartItemRepository struct {
	DB        *gorm.DB
	publisher ChangePublisher
}

func NewCartItemRepository(db *gorm.DB, publisher ChangePublisher) *CartItemRepository {
	return &CartItemRepository{
		DB:        db,
		publisher: publisher,
	}
}

func (r *CartItemRepository) FindByOwner(ctx context.Context, owner string) ([]domain.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", owner).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to find cart items: %w", err)
	}

	return items, nil
}

func (r *CartItemRepository) FindByOwnerAndProduct(ctx context.Context, owner, productID string) (domain.CartItem, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartItem{}, false, fmt.Errorf("context error: %w", err)
	}

	var item domain.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", owner, productID).
		Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartItem{}, false, nil
		}
		return domain.CartItem{}, false, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, true, nil
}

func (r *CartItemRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}

	publishChange(ctx, r.publisher, domain.ChangeEvent{
		Table: domain.TableCartItems,
		Owner: item.Owner,
		Op:    domain.ChangeInsert,
		RowID: item.ID,
	})
	return nil
}

// UpdateQuantity matching no row is not an error.
func (r *CartItemRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := r.DB.WithContext(ctx).Model(&domain.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if err := row.Error; err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	if row.RowsAffected > 0 {
		var item domain.CartItem
		if err := r.DB.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).Take(&item).Error; err != nil {
			// The update stands; only the event is lost.
			return nil
		}
		publishChange(ctx, r.publisher, domain.ChangeEvent{
			Table: domain.TableCartItems,
			Owner: item.Owner,
			Op:    domain.ChangeUpdate,
			RowID: id,
		})
	}
	return nil
}

func (r *CartItemRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.deleteWhere(ctx, "failed to delete cart item", "id = ?", id)
}

func (r *CartItemRepository) DeleteByOwner(ctx context.Context, owner string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.deleteWhere(ctx, "failed to clear cart", "user_id = ?", owner)
}

// deleteWhere loads the matching rows first so each delete event carries
// its owner, then removes exactly those rows.
func (r *CartItemRepository) deleteWhere(ctx context.Context, failure, query string, arg any) error {
	var items []domain.CartItem
	if err := r.DB.WithContext(ctx).Select("id", "user_id").Where(query, arg).Find(&items).Error; err != nil {
		return fmt.Errorf("%s: %w", failure, err)
	}
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("%s: %w", failure, err)
	}

	r.publishDeleted(ctx, items)
	return nil
}

func (r *CartItemRepository) publishDeleted(ctx context.Context, items []domain.CartItem) {
	for _, it := range items {
		publishChange(ctx, r.publisher, domain.ChangeEvent{
			Table: domain.TableCartItems,
			Owner: it.Owner,
			Op:    domain.ChangeDelete,
			RowID: it.ID,
		})
	}
}
