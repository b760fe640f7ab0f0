package model

import (
	"time"

	"github.com/google/uuid"
)

// IntentStatus - trạng thái của payment intent (saga record)
type IntentStatus string

const (
	IntentCreated  IntentStatus = "created"
	IntentVerified IntentStatus = "verified"
	IntentFailed   IntentStatus = "failed"
	IntentExpired  IntentStatus = "expired"
)

// IsTerminal: verified/failed/expired không bao giờ đổi nữa
func (s IntentStatus) IsTerminal() bool {
	return s == IntentVerified || s == IntentFailed || s == IntentExpired
}

func (s IntentStatus) String() string {
	return string(s)
}

// PaymentIntent - mỗi lần tạo order phía processor cho một order của marketplace
type PaymentIntent struct {
	ID                uuid.UUID    `json:"id"`
	ProviderOrderID   string       `json:"providerOrderId"`
	OrderID           *uuid.UUID   `json:"orderId,omitempty"`
	UserID            uuid.UUID    `json:"userId"`
	Amount            int64        `json:"amount"` // minor units
	Currency          string       `json:"currency"`
	Receipt           string       `json:"receipt"`
	Status            IntentStatus `json:"status"`
	ProviderPaymentID *string      `json:"providerPaymentId,omitempty"`
	FailureReason     *string      `json:"failureReason,omitempty"`
	ExpiresAt         time.Time    `json:"expiresAt"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// ReusableFor: intent còn created, chưa hết hạn và cùng số tiền thì client trả tiếp trên intent này
func (p *PaymentIntent) ReusableFor(amount int64, now time.Time) bool {
	return p.Status == IntentCreated && p.Amount == amount && p.ExpiresAt.After(now)
}

// Transition - kết quả của một lần đổi trạng thái intent trong transaction
type Transition struct {
	Intent *PaymentIntent
	// Changed = false khi intent đã terminal từ trước
	Changed bool
}
