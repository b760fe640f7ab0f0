package service

import (
	"context"

	"bookstore-marketplace/internal/domains/order/model"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// OrderService - order lifecycle: tạo với price snapshot, đổi status theo state machine
type OrderService interface {
	CreateOrder(ctx context.Context, requester authz.Identity, req model.CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)
	UpdateOrder(ctx context.Context, requester authz.Identity, id uuid.UUID, req model.UpdateOrderRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, requester authz.Identity, id uuid.UUID) error

	ListOrdersForSeller(ctx context.Context, sellerID uuid.UUID, p catalog.Params) (catalog.Page[model.OrderDetail], error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID, p catalog.Params) (catalog.Page[model.OrderDetail], error)
	ListOrdersForBook(ctx context.Context, requester authz.Identity, bookID uuid.UUID, p catalog.Params) (catalog.Page[model.OrderDetail], error)
	// ListOrders - Admin, mọi filter optional
	ListOrders(ctx context.Context, requester authz.Identity, filter model.OrderFilter, p catalog.Params) (catalog.Page[model.OrderDetail], error)

	ExportOrdersForSeller(ctx context.Context, sellerID uuid.UUID) (*excelize.File, error)
}
