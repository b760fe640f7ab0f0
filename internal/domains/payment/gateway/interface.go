package gateway

import "context"

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// Gateway - payment processor tương thích Razorpay Orders API
type Gateway interface {
	// CreateOrder tạo order phía processor, amount theo minor units
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*ProviderOrder, error)
	// VerifySignature kiểm tra chữ ký checkout trả về cho cặp (providerOrderID, paymentID)
	VerifySignature(providerOrderID, paymentID, signature string) bool
}

// CreateOrderRequest - body gửi lên POST /v1/orders
type CreateOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

// ProviderOrder - response của processor
type ProviderOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
