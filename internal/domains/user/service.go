package user

import (
	"context"

	bookModel "bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
)

// Service định nghĩa business logic layer contract
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetRoleFromToken(ctx context.Context, token string) (authz.Role, error)

	// ResolveRole dùng cho auth middleware
	ResolveRole(ctx context.Context, userID uuid.UUID) (authz.Role, error)

	// User Profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)

	// Wishlist
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]bookModel.Book, error)
	ToggleWishlist(ctx context.Context, userID, bookID uuid.UUID) ([]uuid.UUID, error)

	// Admin Functions
	ListUsers(ctx context.Context, filter UserFilter, p catalog.Params) (catalog.Page[UserDTO], error)
	UpdateUser(ctx context.Context, requester authz.Identity, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	DeleteUser(ctx context.Context, requester authz.Identity, id uuid.UUID) error
}
