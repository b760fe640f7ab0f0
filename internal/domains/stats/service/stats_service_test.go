package service

import (
	"context"
	"errors"
	"testing"

	"bookstore-marketplace/internal/shared/authz"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountBooks(ctx context.Context, sellerID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountOrders(ctx context.Context, sellerID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountUsersByRole(ctx context.Context, role authz.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func isSeller(id uuid.UUID) interface{} {
	return mock.MatchedBy(func(p *uuid.UUID) bool { return p != nil && *p == id })
}

func isAll() interface{} {
	return mock.MatchedBy(func(p *uuid.UUID) bool { return p == nil })
}

func TestSellerStats(t *testing.T) {
	repo := new(MockStatsRepository)
	seller := authz.Identity{UserID: uuid.New(), Role: authz.RoleVendor}

	repo.On("CountBooks", mock.Anything, isSeller(seller.UserID)).Return(int64(4), nil)
	repo.On("CountOrders", mock.Anything, isSeller(seller.UserID)).Return(int64(11), nil)

	stats, err := NewStatsService(repo).SellerStats(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.BookCount)
	assert.Equal(t, int64(11), stats.OrderCount)
}

func TestSellerStats_PlainUserForbidden(t *testing.T) {
	_, err := NewStatsService(new(MockStatsRepository)).SellerStats(context.Background(), authz.Identity{UserID: uuid.New(), Role: authz.RoleUser})
	assert.True(t, errors.Is(err, ErrStatsForbidden))
}

func TestAdminStats(t *testing.T) {
	repo := new(MockStatsRepository)
	admin := authz.Identity{UserID: uuid.New(), Role: authz.RoleAdmin}

	repo.On("CountUsersByRole", mock.Anything, authz.RoleVendor).Return(int64(3), nil)
	repo.On("CountUsersByRole", mock.Anything, authz.RoleUser).Return(int64(20), nil)
	repo.On("CountBooks", mock.Anything, isAll()).Return(int64(40), nil)
	repo.On("CountOrders", mock.Anything, isAll()).Return(int64(90), nil)

	stats, err := NewStatsService(repo).AdminStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.VendorCount)
	assert.Equal(t, int64(20), stats.UserCount)
	assert.Equal(t, int64(40), stats.BookCount)
	assert.Equal(t, int64(90), stats.OrderCount)
}

func TestAdminStats_ErrorPropagates(t *testing.T) {
	repo := new(MockStatsRepository)
	admin := authz.Identity{UserID: uuid.New(), Role: authz.RoleAdmin}

	repo.On("CountUsersByRole", mock.Anything, mock.Anything).Return(int64(1), nil)
	repo.On("CountBooks", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	repo.On("CountOrders", mock.Anything, mock.Anything).Return(int64(1), nil)

	_, err := NewStatsService(repo).AdminStats(context.Background(), admin)
	assert.ErrorContains(t, err, "db down")

	_, err = NewStatsService(repo).AdminStats(context.Background(), authz.Identity{UserID: uuid.New(), Role: authz.RoleVendor})
	assert.True(t, errors.Is(err, ErrStatsForbidden))
}
