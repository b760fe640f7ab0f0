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

	"bookstore-marketplace/internal/domains/payment/model"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/middleware"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePaymentIntent(ctx context.Context, requester authz.Identity, req model.CreateIntentRequest) (*model.CreateIntentResponse, error) {
	args := m.Called(ctx, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateIntentResponse), args.Error(1)
}

func (m *MockPaymentService) VerifyPayment(ctx context.Context, requester authz.Identity, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error) {
	args := m.Called(ctx, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerifyPaymentResponse), args.Error(1)
}

func (m *MockPaymentService) ExpireIntent(ctx context.Context, intentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, intentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentService) SweepExpired(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h *PaymentHandler, identity authz.Identity) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	})
	r.POST("/create-razorpay-order", h.CreatePaymentIntent)
	r.POST("/verify-razorpay-signature", h.VerifyPayment)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_CreatePaymentIntent(t *testing.T) {
	svc := new(MockPaymentService)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleUser}

	svc.On("CreatePaymentIntent", mock.Anything, identity, mock.MatchedBy(func(r model.CreateIntentRequest) bool {
		return r.Amount != nil && r.Amount.String() == "500" && r.OrderID == ""
	})).Return(&model.CreateIntentResponse{ID: "order_A", Amount: 50000, Currency: "INR"}, nil)

	w := post(newRouter(NewPaymentHandler(svc), identity), "/create-razorpay-order", `{"amount":500}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data model.CreateIntentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "order_A", env.Data.ID)
	assert.Equal(t, int64(50000), env.Data.Amount)
}

func TestPaymentHandler_CreatePaymentIntent_Upstream(t *testing.T) {
	svc := new(MockPaymentService)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleUser}
	svc.On("CreatePaymentIntent", mock.Anything, identity, mock.Anything).Return(nil, model.ErrUpstream)

	w := post(newRouter(NewPaymentHandler(svc), identity), "/create-razorpay-order", `{"amount":10}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPaymentHandler_VerifyPayment_Mismatch(t *testing.T) {
	svc := new(MockPaymentService)
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleUser}
	req := model.VerifyPaymentRequest{OrderID: "order_A", PaymentID: "pay_1", Signature: "bad"}
	svc.On("VerifyPayment", mock.Anything, identity, req).Return(nil, model.ErrSignatureMismatch)

	w := post(newRouter(NewPaymentHandler(svc), identity), "/verify-razorpay-signature",
		`{"orderId":"order_A","paymentId":"pay_1","signature":"bad"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "PAY002", env.Error.Code)
	assert.Equal(t, "Invalid signature", env.Error.Message)
}

func TestPaymentHandler_VerifyPayment_MalformedBody(t *testing.T) {
	identity := authz.Identity{UserID: uuid.New(), Role: authz.RoleUser}
	w := post(newRouter(NewPaymentHandler(new(MockPaymentService)), identity), "/verify-razorpay-signature", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
