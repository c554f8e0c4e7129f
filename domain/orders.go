package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Status transitions happen outside this service; checkout only ever
// writes OrderStatusPending.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
)

const PaymentMethodCashOnDelivery = "cash_on_delivery"

// CREATE TABLE public.orders (
//     id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//     user_id         UUID NOT NULL,
//     total_amount    NUMERIC(12,2) NOT NULL,
//     status          TEXT NOT NULL DEFAULT 'pending',
//     payment_method  TEXT NOT NULL DEFAULT 'cash_on_delivery',
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Order struct {
	ID            string          `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Owner         string          `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	Status        OrderStatus     `gorm:"column:status;type:text;not null" json:"status"`
	PaymentMethod string          `gorm:"column:payment_method;type:text;not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`

	Items []OrderItem `gorm:"-" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// CREATE TABLE public.order_items (
//     id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//     order_id    UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
//     product_id  UUID NOT NULL REFERENCES products(id),
//     quantity    INTEGER NOT NULL,
//     price       NUMERIC(12,2) NOT NULL
// );

// OrderItem snapshots the product price at order time.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	OrderID   string          `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID string          `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
