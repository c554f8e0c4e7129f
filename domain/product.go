package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.products (
//     id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//     name            TEXT NOT NULL,
//     price           NUMERIC(12,2) NOT NULL CHECK (price >= 0),
//     stock           INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
//     description     TEXT,
//     image_url       TEXT,
//     category        TEXT,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          string          `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Name        string          `gorm:"column:name;type:text;not null" json:"name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	ImageURL    string          `gorm:"column:image_url;type:text" json:"image_url"`
	Category    string          `gorm:"column:category;type:text" json:"category"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
