package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bookModel "bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/domains/user"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/middleware"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.AuthResponse), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.AuthResponse), args.Error(1)
}

func (m *MockUserService) GetRoleFromToken(ctx context.Context, token string) (authz.Role, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(authz.Role), args.Error(1)
}

func (m *MockUserService) ResolveRole(ctx context.Context, userID uuid.UUID) (authz.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(authz.Role), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.UserDTO), args.Error(1)
}

func (m *MockUserService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]bookModel.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookModel.Book), args.Error(1)
}

func (m *MockUserService) ToggleWishlist(ctx context.Context, userID, bookID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, filter user.UserFilter, p catalog.Params) (catalog.Page[user.UserDTO], error) {
	args := m.Called(ctx, filter, p)
	return args.Get(0).(catalog.Page[user.UserDTO]), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, requester authz.Identity, id uuid.UUID, req user.UpdateUserRequest) (*user.UserDTO, error) {
	args := m.Called(ctx, requester, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.UserDTO), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, requester authz.Identity, id uuid.UUID) error {
	return m.Called(ctx, requester, id).Error(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h *UserHandler, identity *authz.Identity) *gin.Engine {
	r := gin.New()
	if identity != nil {
		r.Use(func(c *gin.Context) {
			middleware.SetIdentity(c, *identity)
			c.Next()
		})
	}
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/get-role", h.GetRole)
	r.GET("/user/profile", h.GetProfile)
	r.POST("/user/wishlist/add-remove", h.ToggleWishlist)
	r.GET("/user", h.ListUsers)
	r.PUT("/user/:id", h.UpdateUser)
	r.DELETE("/user/:id", h.DeleteUser)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Register(t *testing.T) {
	svc := new(MockUserService)
	h := NewUserHandler(svc)

	req := user.RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"}
	svc.On("Register", mock.Anything, req).
		Return(&user.AuthResponse{Token: "tok", User: user.UserDTO{ID: uuid.New(), Role: authz.RoleUser}}, nil)

	w := postJSON(newRouter(h, nil), "/auth/register", `{"username":"jane","email":"jane@example.com","password":"secret123"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var auth user.AuthResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &auth))
	assert.Equal(t, "tok", auth.Token)
	svc.AssertExpectations(t)
}

func TestUserHandler_Register_Conflict(t *testing.T) {
	svc := new(MockUserService)
	h := NewUserHandler(svc)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, user.ErrEmailAlreadyExists)

	w := postJSON(newRouter(h, nil), "/auth/register", `{"username":"jane","email":"jane@example.com","password":"secret123"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USR002", decode(t, w).Error.Code)
}

func TestUserHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown email", user.ErrUserNotFound, http.StatusNotFound},
		{"wrong password", user.ErrInvalidCredentials, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			svc.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postJSON(newRouter(NewUserHandler(svc), nil), "/auth/login", `{"email":"a@b.co","password":"x"}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUserHandler_GetRole(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetRoleFromToken", mock.Anything, "tok").Return(authz.RoleVendor, nil)
	svc.On("GetRoleFromToken", mock.Anything, "").Return(authz.Role(""), user.ErrMissingToken)
	r := newRouter(NewUserHandler(svc), nil)

	w := postJSON(r, "/get-role", `{"token":" tok "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var role user.RoleResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &role))
	assert.Equal(t, authz.RoleVendor, role.Role)

	w = postJSON(r, "/get-role", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_GetProfile_RequiresIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(NewUserHandler(new(MockUserService)), nil).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_ToggleWishlist(t *testing.T) {
	svc := new(MockUserService)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleUser}
	bookID := uuid.New()
	svc.On("ToggleWishlist", mock.Anything, identity.UserID, bookID).Return([]uuid.UUID{bookID}, nil)
	r := newRouter(NewUserHandler(svc), &identity)

	w := postJSON(r, "/user/wishlist/add-remove", `{"bookId":"`+bookID.String()+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp user.WishlistResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	assert.Equal(t, []uuid.UUID{bookID}, resp.Wishlist)

	w = postJSON(r, "/user/wishlist/add-remove", `{"bookId":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "ToggleWishlist", 1)
}

func TestUserHandler_ListUsers_UserFlagWins(t *testing.T) {
	svc := new(MockUserService)
	params := catalog.Params{Page: 2, Limit: 5}
	svc.On("ListUsers", mock.Anything, mock.MatchedBy(func(f user.UserFilter) bool {
		return f.Username == "jo" && f.Role != nil && *f.Role == authz.RoleUser
	}), params).Return(catalog.NewPage([]user.UserDTO{}, 0, params), nil)

	w := httptest.NewRecorder()
	newRouter(NewUserHandler(svc), nil).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user?username=jo&seller=1&user=1&page=2&limit=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateUser_RoleDenied(t *testing.T) {
	svc := new(MockUserService)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleUser}
	svc.On("UpdateUser", mock.Anything, identity, identity.UserID, mock.Anything).Return(nil, user.ErrRoleChangeDenied)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/user/"+identity.UserID.String(), strings.NewReader(`{"role":"Admin"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(NewUserHandler(svc), &identity).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "USR007", decode(t, w).Error.Code)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	svc := new(MockUserService)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleAdmin}
	target := uuid.New()
	svc.On("DeleteUser", mock.Anything, identity, target).Return(nil)
	r := newRouter(NewUserHandler(svc), &identity)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user/"+target.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "USR010", decode(t, w).Error.Code)
}
