//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-marketplace/internal/domains/user"
	"bookstore-marketplace/internal/infrastructure/cache"
	"bookstore-marketplace/internal/infrastructure/database/dbtest"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"
)

func TestMain(m *testing.M) {
	dbtest.Main(m)
}

func newRepo(t *testing.T) user.Repository {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPostgresRepository(dbtest.Pool(t), cache.NewRedisCache(client, "test"))
}

func newUser(email string) *user.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &user.User{
		ID:           uuid.New(),
		Username:     "jane",
		Email:        email,
		PasswordHash: "hash",
		Role:         authz.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	u := newUser(uuid.NewString() + "@example.com")
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
	assert.Empty(t, byID.Wishlist)

	// lần hai đi qua cache
	cached, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cached.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	email := uuid.NewString() + "@example.com"

	require.NoError(t, repo.Create(ctx, newUser(email)))
	assert.ErrorIs(t, repo.Create(ctx, newUser(email)), user.ErrEmailAlreadyExists)
}

func TestUserRepository_ToggleWishlistTwice(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	u := newUser(uuid.NewString() + "@example.com")
	require.NoError(t, repo.Create(ctx, u))
	bookID := uuid.New()

	wishlist, err := repo.ToggleWishlist(ctx, u.ID, bookID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bookID}, wishlist)

	wishlist, err = repo.ToggleWishlist(ctx, u.ID, bookID)
	require.NoError(t, err)
	assert.Empty(t, wishlist)

	// cache đã bị invalidate
	fresh, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Wishlist)
}

func TestUserRepository_UpdateRoleAndList(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	u := newUser(uuid.NewString() + "@example.com")
	u.Username = "vendor-" + u.ID.String()[:8]
	require.NoError(t, repo.Create(ctx, u))

	role := authz.RoleVendor
	updated, err := repo.Update(ctx, u.ID, user.UserPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, authz.RoleVendor, updated.Role)

	users, total, err := repo.List(ctx, user.UserFilter{Username: u.Username, Role: &role}, catalog.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, u.ID, users[0].ID)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), user.ErrUserNotFound)
}

func TestUserRepository_WishlistReadBack(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	u := newUser(uuid.NewString() + "@example.com")
	require.NoError(t, repo.Create(ctx, u))
	first, second := uuid.New(), uuid.New()

	_, err := repo.ToggleWishlist(ctx, u.ID, first)
	require.NoError(t, err)
	wishlist, err := repo.ToggleWishlist(ctx, u.ID, second)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, wishlist)

	// uuid[] đọc lại từ DB, không qua cache
	byEmail, err := repo.FindByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, byEmail.Wishlist)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, byID.Wishlist)
}
