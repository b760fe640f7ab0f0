package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUEST DTOs
// ========================================

type CreateBookRequest struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Genre       string          `json:"genre"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Please provide the book title."), validation.Length(1, 500)),
		validation.Field(&r.Author, validation.Required.Error("Please provide the author's name."), validation.Length(1, 255)),
		validation.Field(&r.Genre, validation.Required.Error("Please provide the genre."), validation.Length(1, 100)),
		validation.Field(&r.Price, validation.By(nonNegativeDecimal("Price must be a positive number."))),
		validation.Field(&r.Stock, validation.Min(0).Error("Stock must be a non-negative number.")),
		validation.Field(&r.Description, validation.Required.Error("Please provide a description.")),
		validation.Field(&r.ImageURL, validation.NilOrNotEmpty, is.URL),
	)
}

// UpdateBookRequest - partial update, sellerId không nằm trong patch
type UpdateBookRequest struct {
	Title       *string          `json:"title,omitempty"`
	Author      *string          `json:"author,omitempty"`
	Genre       *string          `json:"genre,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Description *string          `json:"description,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Author, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Genre, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Price, validation.By(nonNegativeDecimal("Price must be a positive number."))),
		validation.Field(&r.Stock, validation.Min(0).Error("Stock must be a non-negative number.")),
		validation.Field(&r.Description, validation.NilOrNotEmpty),
		validation.Field(&r.ImageURL, validation.NilOrNotEmpty, is.URL),
	)
}

func (r UpdateBookRequest) ToPatch() BookPatch {
	return BookPatch{
		Title:       r.Title,
		Author:      r.Author,
		Genre:       r.Genre,
		Price:       r.Price,
		Stock:       r.Stock,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// nonNegativeDecimal nhận decimal.Decimal hoặc *decimal.Decimal (nil bỏ qua)
func nonNegativeDecimal(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		var d decimal.Decimal
		switch v := value.(type) {
		case decimal.Decimal:
			d = v
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			d = *v
		default:
			return nil
		}
		if d.IsNegative() {
			return validation.NewError("validation_price_negative", msg)
		}
		return nil
	}
}

// ========================================
// COVER
// ========================================

type CoverUploadResponse struct {
	BookID      string `json:"bookId"`
	OriginalURL string `json:"originalUrl"`
	Processing  bool   `json:"processing"`
}
