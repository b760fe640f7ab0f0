package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) CreateBook(ctx context.Context, requester authz.Identity, req model.CreateBookRequest) (*model.Book, error) {
	args := m.Called(ctx, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) ListBooks(ctx context.Context, filter model.BookFilter, p catalog.Params) (catalog.Page[model.Book], error) {
	args := m.Called(ctx, filter, p)
	return args.Get(0).(catalog.Page[model.Book]), args.Error(1)
}

func (m *MockBookService) ListBooksForSeller(ctx context.Context, sellerID uuid.UUID, p catalog.Params) (catalog.Page[model.Book], error) {
	args := m.Called(ctx, sellerID, p)
	return args.Get(0).(catalog.Page[model.Book]), args.Error(1)
}

func (m *MockBookService) UpdateBook(ctx context.Context, requester authz.Identity, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	args := m.Called(ctx, requester, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) DeleteBook(ctx context.Context, requester authz.Identity, id uuid.UUID) error {
	return m.Called(ctx, requester, id).Error(0)
}

func (m *MockBookService) ExportBooksForSeller(ctx context.Context, sellerID uuid.UUID) (*excelize.File, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*excelize.File), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h *Handler, identity *authz.Identity) *gin.Engine {
	r := gin.New()
	if identity != nil {
		r.Use(func(c *gin.Context) {
			middleware.SetIdentity(c, *identity)
			c.Next()
		})
	}
	r.GET("/books", h.ListBooks)
	r.GET("/books/my-products", h.ListMyProducts)
	r.GET("/books/:id", h.GetBook)
	r.POST("/books", h.CreateBook)
	r.DELETE("/books/:id", h.DeleteBook)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHandler_ListBooks_ParsesFilters(t *testing.T) {
	svc := new(MockBookService)
	h := NewHandler(svc, nil)
	sellerID := uuid.New()

	expectedParams := catalog.Params{Page: 1, Limit: 10}
	svc.On("ListBooks", mock.Anything, mock.MatchedBy(func(f model.BookFilter) bool {
		return f.Title == "dune" && f.Genre == "sci" && f.SellerID != nil && *f.SellerID == sellerID
	}), expectedParams).Return(catalog.NewPage([]model.Book{{Title: "Dune"}}, 1, expectedParams), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books?name=dune&genre=sci&sellerId="+sellerID.String()+"&page=abc&limit=-3", nil)
	newRouter(h, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Page)
	assert.Equal(t, 10, env.Meta.Limit)
	assert.Equal(t, int64(1), env.Meta.Total)
	svc.AssertExpectations(t)
}

func TestHandler_ListBooks_InvalidSellerID(t *testing.T) {
	h := NewHandler(new(MockBookService), nil)

	w := httptest.NewRecorder()
	newRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books?sellerId=nope", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BOK004", decode(t, w).Error.Code)
}

func TestHandler_GetBook(t *testing.T) {
	svc := new(MockBookService)
	h := NewHandler(svc, nil)
	id := uuid.New()

	svc.On("GetBook", mock.Anything, id).Return(nil, model.ErrBookNotFound)

	w := httptest.NewRecorder()
	newRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	newRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CreateBook(t *testing.T) {
	svc := new(MockBookService)
	h := NewHandler(svc, nil)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleVendor}

	svc.On("CreateBook", mock.Anything, identity, mock.MatchedBy(func(r model.CreateBookRequest) bool {
		return r.Title == "Dune" && r.Price.Equal(decimal.RequireFromString("12.5"))
	})).Return(&model.Book{ID: uuid.New(), Title: "Dune", SellerID: identity.UserID}, nil)

	body := `{"title":"Dune","author":"Herbert","genre":"Sci-Fi","price":12.5,"stock":1,"description":"d"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(h, &identity).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var created model.Book
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, identity.UserID, created.SellerID)
}

func TestHandler_CreateBook_MalformedJSON(t *testing.T) {
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleVendor}
	h := NewHandler(new(MockBookService), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(h, &identity).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_MyProducts_RequiresIdentity(t *testing.T) {
	h := NewHandler(new(MockBookService), nil)

	w := httptest.NewRecorder()
	newRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/my-products", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_DeleteBook_Forbidden(t *testing.T) {
	svc := new(MockBookService)
	h := NewHandler(svc, nil)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleVendor}
	id := uuid.New()

	svc.On("DeleteBook", mock.Anything, identity, id).Return(model.ErrNotBookOwner)

	w := httptest.NewRecorder()
	newRouter(h, &identity).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/books/"+id.String(), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "BOK002", decode(t, w).Error.Code)
}
