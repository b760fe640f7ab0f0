package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book thuộc về Vendor tạo ra nó, SellerID không đổi sau khi tạo
type Book struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Genre       string          `json:"genre"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	SellerID    uuid.UUID       `json:"sellerId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BookFilter - filter hợp lệ cho danh sách sách
type BookFilter struct {
	Title    string // ILIKE, query param "name"
	Genre    string // ILIKE
	SellerID *uuid.UUID
}

// BookPatch - field nil thì giữ nguyên; không có SellerID
type BookPatch struct {
	Title       *string
	Author      *string
	Genre       *string
	Price       *decimal.Decimal
	Stock       *int
	Description *string
	ImageURL    *string
}

func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Genre == nil && p.Price == nil &&
		p.Stock == nil && p.Description == nil && p.ImageURL == nil
}
