package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest - POST /order
type CreateOrderRequest struct {
	BookID string `json:"bookId"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("bookId is required"), is.UUID),
	)
}

// UpdateOrderRequest - PUT /order/:id
type UpdateOrderRequest struct {
	Status     *string          `json:"status,omitempty"`
	TotalPrice *decimal.Decimal `json:"totalPrice,omitempty"`
}

func (r UpdateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.By(validStatus)),
		validation.Field(&r.TotalPrice, validation.By(nonNegative)),
	)
}

func (r UpdateOrderRequest) ToPatch() OrderPatch {
	var patch OrderPatch
	if r.Status != nil {
		s := OrderStatus(*r.Status)
		patch.Status = &s
	}
	patch.TotalPrice = r.TotalPrice
	return patch
}

func validStatus(value interface{}) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if !OrderStatus(*s).IsValid() {
		return validation.NewError("validation_order_status", ErrInvalidStatus.Message)
	}
	return nil
}

func nonNegative(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if d.IsNegative() {
		return validation.NewError("validation_total_price", "Total price must be a positive number.")
	}
	return nil
}
