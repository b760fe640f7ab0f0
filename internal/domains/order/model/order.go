package model

import (
	"time"

	"bookstore-marketplace/internal/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus - giá trị case-sensitive, giống DB và client
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal: Delivered và Cancelled không đi tiếp được
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Pending → Shipped → Delivered, Pending → Cancelled
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

// CanTransitionTo chỉ xét cạnh hợp lệ, cùng status xử lý ở service (no-op)
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus - trạng thái thanh toán của order, do payment saga cập nhật
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentIntentCreated PaymentStatus = "intent_created"
	PaymentPaid          PaymentStatus = "paid"
	PaymentFailed        PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// Order - seller_id và total_price là snapshot từ book lúc tạo, không tính lại
type Order struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	SellerID      uuid.UUID       `json:"sellerId"`
	BookID        uuid.UUID       `json:"bookId"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BookSummary - book đã join, nil khi book bị xoá
type BookSummary struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Price    decimal.Decimal `json:"price"`
	ImageURL *string         `json:"imageUrl,omitempty"`
}

// OrderDetail - order kèm buyer, seller và book (LEFT JOIN)
type OrderDetail struct {
	Order
	Buyer  *shared.UserBasicInfo `json:"buyer"`
	Seller *shared.UserBasicInfo `json:"seller"`
	Book   *BookSummary          `json:"book"`
}

// OrderFilter - các field filter hợp lệ cho listing
type OrderFilter struct {
	UserID   *uuid.UUID
	SellerID *uuid.UUID
	BookID   *uuid.UUID
	Status   *OrderStatus
}

// OrderPatch - nil = giữ nguyên
type OrderPatch struct {
	Status     *OrderStatus
	TotalPrice *decimal.Decimal

	// ExpectedStatus: chỉ ghi khi status trong DB vẫn là giá trị này
	ExpectedStatus *OrderStatus
}

func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.TotalPrice == nil
}
