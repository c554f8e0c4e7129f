package domain

import "github.com/shopspring/decimal"

// CartLine is a cart item joined with the product fields the cart view needs.
type CartLine struct {
	ItemID    string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSummary is derived from the store on every read and never cached as
// the source of truth. Line order is not stable across reads.
type CartSummary struct {
	Owner string          `json:"user_id"`
	Lines []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (s CartSummary) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Line finds the line of a cart item.
func (s CartSummary) Line(itemID string) (CartLine, bool) {
	for _, l := range s.Lines {
		if l.ItemID == itemID {
			return l, true
		}
	}
	return CartLine{}, false
}
