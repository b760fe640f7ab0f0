package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-marketplace/internal/domains/user"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/middleware"
	"bookstore-marketplace/internal/shared/response"
	"bookstore-marketplace/internal/shared/utils"
)

// UserHandler xử lý HTTP requests cho auth + user
type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ========================================
// PUBLIC ENDPOINTS
// ========================================

// Register - POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Registration successful", result)
}

// Login - POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful", result)
}

// ========================================
// AUTHENTICATED ENDPOINTS
// ========================================

// GetRole - POST /get-role, body {token}
func (h *UserHandler) GetRole(c *gin.Context) {
	var req user.GetRoleRequest
	// body rỗng/sai → token rỗng → 400 từ service
	_ = c.ShouldBindJSON(&req)

	role, err := h.userService.GetRoleFromToken(c.Request.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user.RoleResponse{Role: role})
}

// GetProfile - GET /user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// GetWishlist - GET /user/wishlist
func (h *UserHandler) GetWishlist(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	books, err := h.userService.GetWishlist(c.Request.Context(), identity.UserID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, books)
}

// ToggleWishlist - POST /user/wishlist/add-remove, body {bookId}
func (h *UserHandler) ToggleWishlist(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	var req user.ToggleWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := utils.Validate(req); err != nil {
		response.HandleError(c, err)
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		response.HandleError(c, user.ErrInvalidBookID)
		return
	}

	wishlist, err := h.userService.ToggleWishlist(c.Request.Context(), identity.UserID, bookID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Wishlist updated", user.WishlistResponse{Wishlist: wishlist})
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// ListUsers - GET /user?username=&seller=&user=&page=&limit=
func (h *UserHandler) ListUsers(c *gin.Context) {
	query := user.ListUsersQuery{
		Username: c.Query("username"),
		Seller:   c.Query("seller") != "",
		User:     c.Query("user") != "",
	}
	params := catalog.ParseParams(c.Query("page"), c.Query("limit"), catalog.DefaultLimit)

	page, err := h.userService.ListUsers(c.Request.Context(), query.ToFilter(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, page)
}

// UpdateUser - PUT /user/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), identity, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "User updated successfully", updated)
}

// DeleteUser - DELETE /user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), identity, id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "User deleted successfully", nil)
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, user.ErrInvalidUserID)
		return uuid.Nil, false
	}
	return id, true
}
