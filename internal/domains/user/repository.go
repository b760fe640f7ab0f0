package user

import (
	"context"

	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
)

// Repository định nghĩa contract cho data access layer
type Repository interface {
	// ========================================
	// BASIC CRUD
	// ========================================

	// Create tạo user mới
	// Returns: ErrEmailAlreadyExists nếu email đã tồn tại
	Create(ctx context.Context, user *User) error

	// FindByID có cache (user:<id>), bản từ cache không có PasswordHash
	// Returns: ErrUserNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail luôn đọc DB (dùng cho login)
	// Returns: ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update áp dụng patch và trả về user mới
	// Returns: ErrUserNotFound, ErrEmailAlreadyExists
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*User, error)

	// Delete hard delete
	// Returns: ErrUserNotFound
	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// ADMIN
	// ========================================

	List(ctx context.Context, filter UserFilter, p catalog.Params) ([]User, int64, error)

	// ========================================
	// WISHLIST
	// ========================================

	// ToggleWishlist thêm nếu chưa có, xoá mọi lần xuất hiện nếu đã có.
	// Một câu UPDATE duy nhất nên hai request song song không ghi đè nhau.
	ToggleWishlist(ctx context.Context, userID, bookID uuid.UUID) ([]uuid.UUID, error)

	// ========================================
	// UTILITY
	// ========================================

	CountByRole(ctx context.Context, role authz.Role) (int64, error)
}
