package cart

import (
	"context"
	"kenyaMart/domain"
)

// CartItemRepository contract interface. Lookups report a missing row as
// found=false with a nil error.
type CartItemRepository interface {
	FindByOwner(ctx context.Context, owner string) ([]domain.CartItem, error)
	FindByOwnerAndProduct(ctx context.Context, owner, productID string) (domain.CartItem, bool, error)
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, owner string) error
}

// ProductRepository is the read side of the catalog the cart needs.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, bool, error)
}
