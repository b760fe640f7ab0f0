//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "bookstore-marketplace/internal/domains/book/model"
	bookRepo "bookstore-marketplace/internal/domains/book/repository"
	"bookstore-marketplace/internal/domains/order/model"
	"bookstore-marketplace/internal/infrastructure/database/dbtest"
	"bookstore-marketplace/internal/shared/catalog"
)

func TestMain(m *testing.M) {
	dbtest.Main(m)
}

func seedBook(t *testing.T, pool *pgxpool.Pool, sellerID uuid.UUID, price string) *bookModel.Book {
	t.Helper()
	now := time.Now().UTC()
	b := &bookModel.Book{
		ID:          uuid.New(),
		Title:       "Dune",
		Author:      "Frank Herbert",
		Genre:       "Sci-Fi",
		Price:       decimal.RequireFromString(price),
		Stock:       3,
		Description: "desert planet",
		SellerID:    sellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, bookRepo.NewPostgresRepository(pool).Create(context.Background(), b))
	return b
}

func newOrder(buyerID uuid.UUID, b *bookModel.Book, at time.Time) *model.Order {
	return &model.Order{
		ID:            uuid.New(),
		UserID:        buyerID,
		SellerID:      b.SellerID,
		BookID:        b.ID,
		TotalPrice:    b.Price,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestOrderRepository_PriceSnapshotSurvivesBookUpdate(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)

	sellerID := dbtest.InsertUser(t, pool, "Vendor")
	buyerID := dbtest.InsertUser(t, pool, "User")
	b := seedBook(t, pool, sellerID, "12.50")

	o := newOrder(buyerID, b, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, o))

	newPrice := decimal.RequireFromString("99.00")
	_, err := bookRepo.NewPostgresRepository(pool).Update(ctx, b.ID, bookModel.BookPatch{Price: &newPrice})
	require.NoError(t, err)

	detail, err := repo.FindDetailByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, detail.TotalPrice.Equal(decimal.RequireFromString("12.50")))
	require.NotNil(t, detail.Book)
	assert.True(t, detail.Book.Price.Equal(newPrice))
	require.NotNil(t, detail.Buyer)
	assert.Equal(t, buyerID.String(), detail.Buyer.ID)
	require.NotNil(t, detail.Seller)
	assert.Equal(t, sellerID.String(), detail.Seller.ID)
}

func TestOrderRepository_DetailWithoutBook(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)

	sellerID := dbtest.InsertUser(t, pool, "Vendor")
	buyerID := dbtest.InsertUser(t, pool, "User")
	b := seedBook(t, pool, sellerID, "5.00")

	o := newOrder(buyerID, b, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, o))
	require.NoError(t, bookRepo.NewPostgresRepository(pool).Delete(ctx, b.ID))

	detail, err := repo.FindDetailByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Book)
	assert.Equal(t, b.ID, detail.BookID)
}

func TestOrderRepository_ListNewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)

	sellerID := dbtest.InsertUser(t, pool, "Vendor")
	otherSeller := dbtest.InsertUser(t, pool, "Vendor")
	buyerID := dbtest.InsertUser(t, pool, "User")
	b := seedBook(t, pool, sellerID, "10.00")
	other := seedBook(t, pool, otherSeller, "10.00")

	base := time.Now().UTC().Add(-time.Hour)
	first := newOrder(buyerID, b, base)
	second := newOrder(buyerID, b, base.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, newOrder(buyerID, other, base)))

	orders, total, err := repo.List(ctx, model.OrderFilter{SellerID: &sellerID}, catalog.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	page2, total, err := repo.List(ctx, model.OrderFilter{SellerID: &sellerID}, catalog.Params{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page2, 1)
	assert.Equal(t, first.ID, page2[0].ID)

	all, err := repo.ListAllBySeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)

	sellerID := dbtest.InsertUser(t, pool, "Vendor")
	buyerID := dbtest.InsertUser(t, pool, "User")
	o := newOrder(buyerID, seedBook(t, pool, sellerID, "7.00"), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, o))

	shipped := model.StatusShipped
	updated, err := repo.Update(ctx, o.ID, model.OrderPatch{Status: &shipped})
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)

	_, err = repo.Update(ctx, o.ID, model.OrderPatch{})
	assert.ErrorIs(t, err, model.ErrEmptyUpdate)

	require.NoError(t, repo.Delete(ctx, o.ID))
	_, err = repo.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderRepository_UpdateGuardedByExpectedStatus(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)

	sellerID := dbtest.InsertUser(t, pool, "Vendor")
	buyerID := dbtest.InsertUser(t, pool, "User")
	o := newOrder(buyerID, seedBook(t, pool, sellerID, "7.00"), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, o))

	pending := model.StatusPending
	shipped := model.StatusShipped
	cancelled := model.StatusCancelled

	// cả hai request đều đọc Pending, seller ghi trước
	_, err := repo.Update(ctx, o.ID, model.OrderPatch{Status: &shipped, ExpectedStatus: &pending})
	require.NoError(t, err)

	_, err = repo.Update(ctx, o.ID, model.OrderPatch{Status: &cancelled, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, model.ErrStatusChanged)

	current, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, current.Status)

	_, err = repo.Update(ctx, uuid.New(), model.OrderPatch{Status: &cancelled, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
