package mock

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"bookstore-marketplace/internal/domains/payment/gateway"
	"bookstore-marketplace/internal/domains/payment/gateway/razorpay"
)

// =====================================================
// MOCK RAZORPAY GATEWAY (local dev, RAZORPAY_USE_MOCK=true)
// =====================================================

type MockRazorpayGateway struct {
	secret string
}

func NewMockRazorpayGateway(secret string) gateway.Gateway {
	return &MockRazorpayGateway{secret: secret}
}

func (m *MockRazorpayGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.ProviderOrder, error) {
	return &gateway.ProviderOrder{
		ID:       "order_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

// Cùng thuật toán với Razorpay để frontend dev tự sinh chữ ký hợp lệ bằng secret
func (m *MockRazorpayGateway) VerifySignature(providerOrderID, paymentID, signature string) bool {
	return razorpay.VerifySignature(providerOrderID, paymentID, signature, m.secret)
}
