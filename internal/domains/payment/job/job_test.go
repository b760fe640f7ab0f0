package job

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookstore-marketplace/internal/domains/payment/model"
	"bookstore-marketplace/internal/infrastructure/queue"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/utils"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePaymentIntent(ctx context.Context, requester authz.Identity, req model.CreateIntentRequest) (*model.CreateIntentResponse, error) {
	return nil, nil
}

func (m *MockPaymentService) VerifyPayment(ctx context.Context, requester authz.Identity, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error) {
	return nil, nil
}

func (m *MockPaymentService) ExpireIntent(ctx context.Context, intentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, intentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentService) SweepExpired(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func expireTask(t *testing.T, id string) *asynq.Task {
	t.Helper()
	task, err := utils.NewTask(shared.TypeExpirePaymentIntent, model.ExpireIntentPayload{IntentID: id})
	require.NoError(t, err)
	return task
}

func TestExpireIntentHandler(t *testing.T) {
	svc := new(MockPaymentService)
	id := uuid.New()
	svc.On("ExpireIntent", mock.Anything, id).Return(true, nil)

	require.NoError(t, NewExpireIntentHandler(svc).ProcessTask(context.Background(), expireTask(t, id.String())))
	svc.AssertExpectations(t)
}

func TestExpireIntentHandler_NotFoundSkips(t *testing.T) {
	svc := new(MockPaymentService)
	id := uuid.New()
	svc.On("ExpireIntent", mock.Anything, id).Return(false, model.ErrIntentNotFound)

	assert.NoError(t, NewExpireIntentHandler(svc).ProcessTask(context.Background(), expireTask(t, id.String())))
}

func TestExpireIntentHandler_BadID(t *testing.T) {
	err := NewExpireIntentHandler(new(MockPaymentService)).ProcessTask(context.Background(), expireTask(t, "nope"))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestExpireIntentHandler_DBErrorRetries(t *testing.T) {
	svc := new(MockPaymentService)
	id := uuid.New()
	svc.On("ExpireIntent", mock.Anything, id).Return(false, errors.New("db down"))

	err := NewExpireIntentHandler(svc).ProcessTask(context.Background(), expireTask(t, id.String()))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestSweepIntentsHandler(t *testing.T) {
	svc := new(MockPaymentService)
	svc.On("SweepExpired", mock.Anything, 100).Return(2, nil)

	task := asynq.NewTask(shared.TypeSweepExpiredIntents, nil)
	require.NoError(t, NewSweepIntentsHandler(svc, 0).ProcessTask(context.Background(), task))
	svc.AssertExpectations(t)
}

func TestSweepIntentsHandler_PayloadLimit(t *testing.T) {
	svc := new(MockPaymentService)
	svc.On("SweepExpired", mock.Anything, 25).Return(0, nil)

	task, err := utils.NewTask(shared.TypeSweepExpiredIntents, queue.SweepExpiredIntentsPayload{Limit: 25})
	require.NoError(t, err)
	require.NoError(t, NewSweepIntentsHandler(svc, 100).ProcessTask(context.Background(), task))
	svc.AssertExpectations(t)
}
