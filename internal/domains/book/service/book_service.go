package service

import (
	"context"
	"fmt"
	"time"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/domains/book/repository"
	"bookstore-marketplace/internal/infrastructure/queue"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/export"
	"bookstore-marketplace/internal/shared/utils"
	"bookstore-marketplace/pkg/cache"
	"bookstore-marketplace/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/xuri/excelize/v2"
)

const bookDetailTTL = 10 * time.Minute

func bookCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("book:%s", id.String())
}

// BookService - Implements ServiceInterface
type BookService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	queue queue.Enqueuer
	now   func() time.Time
}

func NewService(repo repository.RepositoryInterface, cache cache.Cache, q queue.Enqueuer) *BookService {
	return &BookService{
		repo:  repo,
		cache: cache,
		queue: q,
		now:   time.Now,
	}
}

func (s *BookService) CreateBook(ctx context.Context, requester authz.Identity, req model.CreateBookRequest) (*model.Book, error) {
	if !requester.Can(authz.ActionCreate, authz.ResourceBook) {
		return nil, model.ErrNotBookOwner.WithMessage("Only vendors can list books")
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &model.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SellerID:    requester.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	logger.Info("Book created", map[string]interface{}{
		"book_id":   b.ID.String(),
		"seller_id": b.SellerID.String(),
	})
	return b, nil
}

// GetBook - cache-aside theo book:<id>
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var cached model.Book
	if found, err := s.cache.Get(ctx, bookCacheKey(id), &cached); err == nil && found {
		return &cached, nil
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, bookCacheKey(id), b, bookDetailTTL); err != nil {
		logger.Warn("Failed to cache book", map[string]interface{}{"book_id": id.String(), "error": err.Error()})
	}
	return b, nil
}

func (s *BookService) ListBooks(ctx context.Context, filter model.BookFilter, p catalog.Params) (catalog.Page[model.Book], error) {
	books, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return catalog.Page[model.Book]{}, fmt.Errorf("list books: %w", err)
	}
	return catalog.NewPage(books, total, p), nil
}

// ListBooksForSeller - "my products": count cũng chỉ tính sách của seller
func (s *BookService) ListBooksForSeller(ctx context.Context, sellerID uuid.UUID, p catalog.Params) (catalog.Page[model.Book], error) {
	return s.ListBooks(ctx, model.BookFilter{SellerID: &sellerID}, p)
}

func (s *BookService) UpdateBook(ctx context.Context, requester authz.Identity, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, model.ErrEmptyUpdate
	}

	if _, err := s.authorizeOwner(ctx, requester, authz.ActionUpdate, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, requester authz.Identity, id uuid.UUID) error {
	b, err := s.authorizeOwner(ctx, requester, authz.ActionDelete, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	// Ảnh bìa dọn ở worker, lỗi enqueue không làm fail request
	if b.ImageURL != nil {
		task, err := utils.NewTask(shared.TypeDeleteBookCover, model.DeleteCoverPayload{BookID: id.String()})
		if err == nil {
			_, err = s.queue.EnqueueContext(ctx, task, asynq.Queue(shared.QueueLow), asynq.MaxRetry(3))
		}
		if err != nil {
			logger.Error("Failed to enqueue cover deletion", err)
		}
	}

	logger.Info("Book deleted", map[string]interface{}{
		"book_id":      id.String(),
		"requester_id": requester.UserID.String(),
	})
	return nil
}

func (s *BookService) ExportBooksForSeller(ctx context.Context, sellerID uuid.UUID) (*excelize.File, error) {
	books, err := s.repo.ListAllBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller books: %w", err)
	}

	rows := make([][]interface{}, 0, len(books))
	for _, b := range books {
		imageURL := ""
		if b.ImageURL != nil {
			imageURL = *b.ImageURL
		}
		rows = append(rows, []interface{}{
			b.ID.String(),
			b.Title,
			b.Author,
			b.Genre,
			b.Price.InexactFloat64(),
			b.Stock,
			imageURL,
			b.CreatedAt.Format(time.RFC3339),
		})
	}

	f, err := export.Build(export.Sheet{
		Name:    "My products",
		Headers: []string{"ID", "Title", "Author", "Genre", "Price", "Stock", "Cover URL", "Created At"},
		Rows:    rows,
	})
	if err != nil {
		return nil, fmt.Errorf("build excel file: %w", err)
	}
	return f, nil
}

// ========================================
// HELPERS
// ========================================

// authorizeOwner: Admin hoặc seller của sách
func (s *BookService) authorizeOwner(ctx context.Context, requester authz.Identity, action authz.Action, id uuid.UUID) (*model.Book, error) {
	if !requester.Can(action, authz.ResourceBook) {
		return nil, model.ErrNotBookOwner
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requester.IsAdmin() && !requester.Owns(b.SellerID) {
		return nil, model.ErrNotBookOwner
	}
	return b, nil
}

func (s *BookService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, bookCacheKey(id)); err != nil {
		logger.Warn("Failed to invalidate book cache", map[string]interface{}{"book_id": id.String(), "error": err.Error()})
	}
}
