package user

import (
	"strings"
	"time"

	"bookstore-marketplace/internal/shared/authz"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(6, 128).Error("password must be 6-128 characters"),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResponse - register/login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// GetRoleRequest - POST /get-role
type GetRoleRequest struct {
	Token string `json:"token"`
}

type RoleResponse struct {
	Role authz.Role `json:"role"`
}

// ========================================
// USER DTOs
// ========================================

// UserDTO - Public user representation (safe to expose)
type UserDTO struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      authz.Role  `json:"role"`
	Wishlist  []uuid.UUID `json:"wishlist"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// UpdateUserRequest - PUT /user/:id, role chỉ Admin được đổi
type UpdateUserRequest struct {
	Username *string     `json:"username,omitempty"`
	Email    *string     `json:"email,omitempty"`
	Role     *authz.Role `json:"role,omitempty"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Role,
			validation.When(r.Role != nil, validation.In(authz.RoleUser, authz.RoleVendor, authz.RoleAdmin).Error("role must be one of User, Vendor, Admin")),
		),
	)
}

func (r UpdateUserRequest) ToPatch() UserPatch {
	patch := UserPatch{Username: r.Username, Role: r.Role}
	if r.Email != nil {
		email := NormalizeEmail(*r.Email)
		patch.Email = &email
	}
	return patch
}

// ToggleWishlistRequest - POST /user/wishlist/add-remove
type ToggleWishlistRequest struct {
	BookID string `json:"bookId"`
}

func (r ToggleWishlistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("bookId is required"), is.UUID),
	)
}

type WishlistResponse struct {
	Wishlist []uuid.UUID `json:"wishlist"`
}

// ========================================
// ADMIN DTOs
// ========================================

// ListUsersQuery - query string của GET /user
// user=... thắng seller=... khi cả hai được set
type ListUsersQuery struct {
	Username string
	Seller   bool
	User     bool
}

func (q ListUsersQuery) ToFilter() UserFilter {
	f := UserFilter{Username: q.Username}
	switch {
	case q.User:
		role := authz.RoleUser
		f.Role = &role
	case q.Seller:
		role := authz.RoleVendor
		f.Role = &role
	}
	return f
}

// NormalizeEmail - email lưu lowercase để unique index không phân biệt hoa thường
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
