package service

import (
	"context"

	"github.com/google/uuid"

	"bookstore-marketplace/internal/domains/payment/model"
	"bookstore-marketplace/internal/shared/authz"
)

// PaymentService - Razorpay-compatible payment reconciliation
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, requester authz.Identity, req model.CreateIntentRequest) (*model.CreateIntentResponse, error)
	VerifyPayment(ctx context.Context, requester authz.Identity, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error)

	// ExpireIntent trả về true nếu intent thực sự chuyển sang expired
	ExpireIntent(ctx context.Context, intentID uuid.UUID) (bool, error)
	// SweepExpired bắt các intent mà task expire bị mất
	SweepExpired(ctx context.Context, limit int) (int, error)
}
