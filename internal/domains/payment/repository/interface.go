package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookstore-marketplace/internal/domains/payment/model"
)

// =====================================================
// PAYMENT INTENT REPOSITORY INTERFACE
// =====================================================
// Các method đổi trạng thái chạy intent + orders.payment_status trong cùng
// một transaction; orders.payment_status chỉ được ghi ở đây.
type Repository interface {
	// NextReceiptNumber lấy số từ payment_receipt_seq
	NextReceiptNumber(ctx context.Context) (int64, error)

	// CreateIntent insert intent; nếu intent gắn order thì order chuyển intent_created.
	// Mỗi order chỉ có một intent created: intent cũ còn dùng được thì trả
	// ErrIntentInProgress, còn lại (hết hạn / khác số tiền) thì bị expire.
	CreateIntent(ctx context.Context, intent *model.PaymentIntent) error

	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*model.PaymentIntent, error)

	// FindOpenByOrderID - intent created mới nhất của order
	FindOpenByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PaymentIntent, error)

	// MarkVerified: created → verified, order → paid.
	// Intent đã verified thì trả về nguyên trạng (Changed=false).
	MarkVerified(ctx context.Context, providerOrderID, paymentID string) (*model.Transition, error)

	// MarkFailed: created → failed, order → failed (trừ khi order còn intent created khác)
	MarkFailed(ctx context.Context, providerOrderID, reason string) (*model.Transition, error)

	// Expire: created → expired, order → failed (trừ khi order còn intent created khác)
	Expire(ctx context.Context, id uuid.UUID) (*model.Transition, error)

	// ListStale - intent còn created nhưng expires_at < before
	ListStale(ctx context.Context, before time.Time, limit int) ([]model.PaymentIntent, error)
}
