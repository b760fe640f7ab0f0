package repository

import (
	"context"

	"bookstore-marketplace/internal/domains/order/model"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
)

// RepositoryInterface - data access cho orders.
// payment_status chỉ được ghi bởi payment repository (trong transaction của saga).
type RepositoryInterface interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindDetailByID join buyer, seller, book; book nil nếu đã bị xoá
	FindDetailByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)
	Update(ctx context.Context, id uuid.UUID, patch model.OrderPatch) (*model.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List sắp xếp created_at DESC, id DESC
	List(ctx context.Context, filter model.OrderFilter, p catalog.Params) ([]model.OrderDetail, int64, error)
	// ListAllBySeller không phân trang, dùng cho export
	ListAllBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.OrderDetail, error)
}
