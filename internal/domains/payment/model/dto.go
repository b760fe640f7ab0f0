package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CreateIntentRequest - POST /create-razorpay-order
// Amount theo base unit (rupee). Khi có OrderID, Amount có thể bỏ trống.
type CreateIntentRequest struct {
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	OrderID string           `json:"orderId,omitempty"`
}

func (r CreateIntentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount,
			validation.When(r.OrderID == "", validation.NotNil.Error("amount is required")),
			validation.By(positiveAmount),
		),
		validation.Field(&r.OrderID, is.UUID),
	)
}

func positiveAmount(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if !d.IsPositive() {
		return validation.NewError("validation_amount_positive", "amount must be greater than 0")
	}
	return nil
}

// CreateIntentResponse - ID là order id phía processor, frontend đưa vào checkout
type CreateIntentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// VerifyPaymentRequest - POST /verify-razorpay-signature
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (r VerifyPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required),
		validation.Field(&r.PaymentID, validation.Required),
		validation.Field(&r.Signature, validation.Required),
	)
}

type VerifyPaymentResponse struct {
	Verified  bool    `json:"verified"`
	OrderID   string  `json:"orderId"`
	PaymentID string  `json:"paymentId"`
	Receipt   *string `json:"receipt,omitempty"`
}
