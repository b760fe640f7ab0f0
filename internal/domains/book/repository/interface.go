package repository

import (
	"context"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
)

// RepositoryInterface - Định nghĩa data access methods
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// FindByIDs giữ nguyên thứ tự ids, id không tồn tại bị bỏ qua
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error)
	Update(ctx context.Context, id uuid.UUID, patch model.BookPatch) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.BookFilter, p catalog.Params) ([]model.Book, int64, error)
	// ListAllBySeller không phân trang, dùng cho export
	ListAllBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Book, error)
	UpdateImageURL(ctx context.Context, id uuid.UUID, url string) error
}
