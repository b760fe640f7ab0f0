package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	bookModel "bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/domains/user"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/utils"
	"bookstore-marketplace/pkg/jwt"
	"bookstore-marketplace/pkg/logger"
)

const bcryptCost = 10

// TokenManager được *jwt.Manager implement
type TokenManager interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}

// BookReader - phần của book repository mà wishlist cần
type BookReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]bookModel.Book, error)
}

// userService implement user.Service interface
type userService struct {
	repo   user.Repository
	books  BookReader
	tokens TokenManager
	now    func() time.Time
}

func NewUserService(repo user.Repository, books BookReader, tokens TokenManager) user.Service {
	return &userService{
		repo:   repo,
		books:  books,
		tokens: tokens,
		now:    time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register tạo user role User và trả token luôn
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	email := user.NormalizeEmail(req.Email)

	// 2. BUSINESS RULE: email unique (unique index vẫn chặn race)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, user.ErrEmailAlreadyExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("check email exists: %w", err)
	}

	// 3. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. CREATE USER ENTITY
	now := s.now().UTC()
	newUser := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         authz.RoleUser,
		Wishlist:     []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. PERSIST
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(newUser.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info("User registered", map[string]interface{}{"user_id": newUser.ID.String()})
	return &user.AuthResponse{Token: token, User: newUser.ToDTO()}, nil
}

// Login - email không tồn tại: 404, sai password: 401
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, user.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &user.AuthResponse{Token: token, User: u.ToDTO()}, nil
}

func (s *userService) GetRoleFromToken(ctx context.Context, token string) (authz.Role, error) {
	if token == "" {
		return "", user.ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return "", user.ErrInvalidToken
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return "", user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", user.ErrNoUserForToken
		}
		return "", err
	}
	return u.Role, nil
}

// ResolveRole - role lấy từ store (qua cache), không tin claim trong token
func (s *userService) ResolveRole(ctx context.Context, userID uuid.UUID) (authz.Role, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// ========================================
// PROFILE & WISHLIST
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// GetWishlist trả về sách theo thứ tự wishlist, sách đã xoá bị bỏ qua
func (s *userService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]bookModel.Book, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	books, err := s.books.FindByIDs(ctx, u.Wishlist)
	if err != nil {
		return nil, fmt.Errorf("load wishlist books: %w", err)
	}
	return books, nil
}

func (s *userService) ToggleWishlist(ctx context.Context, userID, bookID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ToggleWishlist(ctx, userID, bookID)
}

// ========================================
// ADMIN FUNCTIONS
// ========================================

func (s *userService) ListUsers(ctx context.Context, filter user.UserFilter, p catalog.Params) (catalog.Page[user.UserDTO], error) {
	users, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return catalog.Page[user.UserDTO]{}, fmt.Errorf("list users: %w", err)
	}

	dtos := make([]user.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO())
	}
	return catalog.NewPage(dtos, total, p), nil
}

// UpdateUser - self hoặc Admin; đổi role chỉ Admin
func (s *userService) UpdateUser(ctx context.Context, requester authz.Identity, id uuid.UUID, req user.UpdateUserRequest) (*user.UserDTO, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, user.ErrEmptyUpdate
	}

	if !requester.IsAdmin() && !requester.Owns(id) {
		return nil, user.ErrForbidden
	}
	if patch.Role != nil && !requester.Can(authz.ActionUpdate, authz.ResourceUserRole) {
		return nil, user.ErrRoleChangeDenied
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		logger.Info("User role changed", map[string]interface{}{
			"user_id":  id.String(),
			"role":     patch.Role.String(),
			"admin_id": requester.UserID.String(),
		})
	}

	dto := updated.ToDTO()
	return &dto, nil
}

func (s *userService) DeleteUser(ctx context.Context, requester authz.Identity, id uuid.UUID) error {
	if !requester.Can(authz.ActionDelete, authz.ResourceUser) {
		return user.ErrForbidden.WithMessage("Only admins can delete users")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("User deleted", map[string]interface{}{
		"user_id":  id.String(),
		"admin_id": requester.UserID.String(),
	})
	return nil
}
