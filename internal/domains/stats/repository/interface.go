package repository

import (
	"context"

	"bookstore-marketplace/internal/shared/authz"

	"github.com/google/uuid"
)

// RepositoryInterface - các COUNT độc lập, service chạy song song
type RepositoryInterface interface {
	// CountBooks - sellerID nil thì đếm tất cả
	CountBooks(ctx context.Context, sellerID *uuid.UUID) (int64, error)
	// CountOrders lọc theo seller_id snapshot của order
	CountOrders(ctx context.Context, sellerID *uuid.UUID) (int64, error)
	CountUsersByRole(ctx context.Context, role authz.Role) (int64, error)
}
