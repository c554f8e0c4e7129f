package cart

import (
	"errors"
	"kenyaMart/domain"

	"github.com/go-playground/validator/v10"
)

type quantityChange struct {
	Quantity int `validate:"gte=1,ltefield=Stock"`
	Stock    int `validate:"gte=0"`
}

// ValidateQuantityChange is the boundary rule for editing a line: at least
// one unit and never more than the product's current stock.
func ValidateQuantityChange(validate *validator.Validate, quantity, stock int) error {
	err := validate.Struct(quantityChange{Quantity: quantity, Stock: stock})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	for _, fe := range verrs {
		if fe.Field() == "Quantity" && fe.Tag() == "ltefield" {
			return domain.ErrQuantityExceedsStock
		}
		if fe.Field() == "Stock" {
			return domain.ErrQuantityExceedsStock
		}
	}
	return domain.ErrInvalidQuantity
}
