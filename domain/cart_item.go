package domain

// CREATE TABLE public.cart_items (
//     id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//     user_id     UUID NOT NULL,
//     product_id  UUID NOT NULL REFERENCES products(id),
//     quantity    INTEGER NOT NULL CHECK (quantity >= 1),
//     UNIQUE (user_id, product_id)
// );

// CartItem is one (owner, product) selection. The store keeps at most one
// row per pair.
type CartItem struct {
	ID        string `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Owner     string `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_items_owner_product" json:"user_id"`
	ProductID string `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_owner_product" json:"product_id"`
	Quantity  int    `gorm:"column:quantity;not null" json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
