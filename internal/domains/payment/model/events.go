package model

// Payload của order.payment_verified / order.payment_failed

type PaymentVerifiedPayload struct {
	OrderID         string `json:"order_id"`
	IntentID        string `json:"intent_id"`
	ProviderOrderID string `json:"provider_order_id"`
	PaymentID       string `json:"payment_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

type PaymentFailedPayload struct {
	OrderID         string `json:"order_id"`
	IntentID        string `json:"intent_id"`
	ProviderOrderID string `json:"provider_order_id"`
	Reason          string `json:"reason"`
}

// ExpireIntentPayload - payload của task payment:expire_intent
type ExpireIntentPayload struct {
	IntentID string `json:"intent_id"`
}
