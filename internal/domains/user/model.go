package user

import (
	"time"

	"bookstore-marketplace/internal/shared/authz"

	"github.com/google/uuid"
)

// User là domain entity - ánh xạ 1:1 với bảng users
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`

	// Authentication
	PasswordHash string `json:"-"` // Never expose in JSON

	// Authorization: User | Vendor | Admin
	Role authz.Role `json:"role"`

	// Wishlist giữ thứ tự thêm vào, mỗi book id xuất hiện tối đa 1 lần
	Wishlist []uuid.UUID `json:"wishlist"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserFilter - filter của ListUsers
type UserFilter struct {
	Username string
	Role     *authz.Role
}

// UserPatch - các field được phép update, nil = giữ nguyên
type UserPatch struct {
	Username *string
	Email    *string
	Role     *authz.Role
}

func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Role == nil
}

// ToDTO bỏ password hash
func (u *User) ToDTO() UserDTO {
	wishlist := u.Wishlist
	if wishlist == nil {
		wishlist = []uuid.UUID{}
	}
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Wishlist:  wishlist,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
