package service

import (
	"context"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ServiceInterface - Định nghĩa business logic methods
type ServiceInterface interface {
	CreateBook(ctx context.Context, requester authz.Identity, req model.CreateBookRequest) (*model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter, p catalog.Params) (catalog.Page[model.Book], error)
	ListBooksForSeller(ctx context.Context, sellerID uuid.UUID, p catalog.Params) (catalog.Page[model.Book], error)
	UpdateBook(ctx context.Context, requester authz.Identity, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, requester authz.Identity, id uuid.UUID) error
	ExportBooksForSeller(ctx context.Context, sellerID uuid.UUID) (*excelize.File, error)
}

// CoverServiceInterface - upload ảnh bìa (API) và xử lý variant (worker)
type CoverServiceInterface interface {
	UploadCover(ctx context.Context, requester authz.Identity, bookID uuid.UUID, data []byte) (*model.CoverUploadResponse, error)
	ProcessCover(ctx context.Context, payload model.ProcessCoverPayload) error
	DeleteCover(ctx context.Context, bookID string) error
}

// ObjectStorage được *storage.MinIOStorage implement
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}
