package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/infrastructure/cache"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/apperror"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookRepository mocks repository.RepositoryInterface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *model.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, id uuid.UUID, patch model.BookPatch) (*model.Book, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) List(ctx context.Context, filter model.BookFilter, p catalog.Params) ([]model.Book, int64, error) {
	args := m.Called(ctx, filter, p)
	return args.Get(0).([]model.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) ListAllBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Book, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *MockBookRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

// recordingQueue ghi lại task đã enqueue
type recordingQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *recordingQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}

func newTestCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, "test"), mr
}

func newTestBookService(t *testing.T) (*BookService, *MockBookRepository, *recordingQueue, *miniredis.Miniredis) {
	t.Helper()
	repo := new(MockBookRepository)
	q := &recordingQueue{}
	c, mr := newTestCache(t)
	svc := NewService(repo, c, q)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	return svc, repo, q, mr
}

func vendor() authz.Identity {
	return authz.Identity{UserID: uuid.New(), Role: authz.RoleVendor}
}

func validCreateRequest() model.CreateBookRequest {
	return model.CreateBookRequest{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Genre:       "Sci-Fi",
		Price:       decimal.RequireFromString("499.00"),
		Stock:       5,
		Description: "Desert planet",
	}
}

func TestBookService_CreateBook(t *testing.T) {
	t.Run("seller id comes from requester", func(t *testing.T) {
		svc, repo, _, _ := newTestBookService(t)
		requester := vendor()

		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Book) bool {
			return b.SellerID == requester.UserID && b.Title == "Dune"
		})).Return(nil)

		book, err := svc.CreateBook(context.Background(), requester, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, requester.UserID, book.SellerID)
		assert.NotEqual(t, uuid.Nil, book.ID)
		assert.True(t, book.Price.Equal(decimal.RequireFromString("499")))
		repo.AssertExpectations(t)
	})

	t.Run("plain user cannot list books", func(t *testing.T) {
		svc, repo, _, _ := newTestBookService(t)
		requester := authz.Identity{UserID: uuid.New(), Role: authz.RoleUser}

		_, err := svc.CreateBook(context.Background(), requester, validCreateRequest())
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing fields are validation errors", func(t *testing.T) {
		svc, _, _, _ := newTestBookService(t)
		req := validCreateRequest()
		req.Title = ""
		req.Price = decimal.NewFromInt(-1)

		_, err := svc.CreateBook(context.Background(), vendor(), req)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		details := appErr.Details.(map[string]string)
		assert.Contains(t, details, "title")
		assert.Contains(t, details, "price")
	})
}

func TestBookService_GetBook_CachesResult(t *testing.T) {
	svc, repo, _, _ := newTestBookService(t)
	id := uuid.New()
	stored := &model.Book{ID: id, Title: "Dune", Price: decimal.NewFromInt(10), SellerID: uuid.New()}

	repo.On("FindByID", mock.Anything, id).Return(stored, nil).Once()

	first, err := svc.GetBook(context.Background(), id)
	require.NoError(t, err)
	second, err := svc.GetBook(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestBookService_GetBook_NotFound(t *testing.T) {
	svc, repo, _, _ := newTestBookService(t)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, model.ErrBookNotFound)

	_, err := svc.GetBook(context.Background(), id)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestBookService_ListBooksForSeller_FiltersBySeller(t *testing.T) {
	svc, repo, _, _ := newTestBookService(t)
	sellerID := uuid.New()
	params := catalog.ParseParams("2", "2", catalog.DefaultLimit)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f model.BookFilter) bool {
		return f.SellerID != nil && *f.SellerID == sellerID
	}), params).Return([]model.Book{{Title: "c"}, {Title: "d"}}, int64(5), nil)

	page, err := svc.ListBooksForSeller(context.Background(), sellerID, params)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestBookService_UpdateBook(t *testing.T) {
	title := "Dune Messiah"
	req := model.UpdateBookRequest{Title: &title}

	t.Run("owner can update and cache is invalidated", func(t *testing.T) {
		svc, repo, _, mr := newTestBookService(t)
		owner := vendor()
		id := uuid.New()
		existing := &model.Book{ID: id, Title: "Dune", SellerID: owner.UserID}

		require.NoError(t, mr.Set("test:book:"+id.String(), `{"title":"stale"}`))
		repo.On("FindByID", mock.Anything, id).Return(existing, nil)
		repo.On("Update", mock.Anything, id, req.ToPatch()).Return(&model.Book{ID: id, Title: title, SellerID: owner.UserID}, nil)

		updated, err := svc.UpdateBook(context.Background(), owner, id, req)
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.False(t, mr.Exists("test:book:"+id.String()))
	})

	t.Run("other vendor is forbidden", func(t *testing.T) {
		svc, repo, _, _ := newTestBookService(t)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(&model.Book{ID: id, SellerID: uuid.New()}, nil)

		_, err := svc.UpdateBook(context.Background(), vendor(), id, req)
		assert.ErrorIs(t, err, model.ErrNotBookOwner)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin can update any book", func(t *testing.T) {
		svc, repo, _, _ := newTestBookService(t)
		id := uuid.New()
		admin := authz.Identity{UserID: uuid.New(), Role: authz.RoleAdmin}
		repo.On("FindByID", mock.Anything, id).Return(&model.Book{ID: id, SellerID: uuid.New()}, nil)
		repo.On("Update", mock.Anything, id, req.ToPatch()).Return(&model.Book{ID: id, Title: title}, nil)

		_, err := svc.UpdateBook(context.Background(), admin, id, req)
		assert.NoError(t, err)
	})

	t.Run("empty patch", func(t *testing.T) {
		svc, _, _, _ := newTestBookService(t)
		_, err := svc.UpdateBook(context.Background(), vendor(), uuid.New(), model.UpdateBookRequest{})
		assert.ErrorIs(t, err, model.ErrEmptyUpdate)
	})
}

func TestBookService_DeleteBook_EnqueuesCoverCleanup(t *testing.T) {
	svc, repo, q, _ := newTestBookService(t)
	owner := vendor()
	id := uuid.New()
	cover := "http://minio/books/" + id.String() + "/cover_medium.jpg"

	repo.On("FindByID", mock.Anything, id).Return(&model.Book{ID: id, SellerID: owner.UserID, ImageURL: &cover}, nil)
	repo.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, svc.DeleteBook(context.Background(), owner, id))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, shared.TypeDeleteBookCover, q.tasks[0].Type())
}

func TestBookService_DeleteBook_EnqueueFailureDoesNotFail(t *testing.T) {
	svc, repo, q, _ := newTestBookService(t)
	q.err = errors.New("redis down")
	owner := vendor()
	id := uuid.New()
	cover := "http://minio/cover.jpg"

	repo.On("FindByID", mock.Anything, id).Return(&model.Book{ID: id, SellerID: owner.UserID, ImageURL: &cover}, nil)
	repo.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.DeleteBook(context.Background(), owner, id))
}

func TestBookService_ExportBooksForSeller(t *testing.T) {
	svc, repo, _, _ := newTestBookService(t)
	sellerID := uuid.New()
	repo.On("ListAllBySeller", mock.Anything, sellerID).Return([]model.Book{
		{ID: uuid.New(), Title: "Dune", Author: "Herbert", Genre: "Sci-Fi", Price: decimal.NewFromInt(10), Stock: 2},
	}, nil)

	f, err := svc.ExportBooksForSeller(context.Background(), sellerID)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("My products")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][1])
	assert.Equal(t, "Dune", rows[1][1])
}
