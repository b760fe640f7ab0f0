package service

import (
	"context"
	"fmt"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/domains/book/repository"
	"bookstore-marketplace/internal/infrastructure/queue"
	"bookstore-marketplace/internal/infrastructure/storage"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/utils"
	"bookstore-marketplace/pkg/cache"
	"bookstore-marketplace/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// CoverService: upload ảnh gốc lên MinIO, worker resize thành large/medium/thumbnail
type CoverService struct {
	repo      repository.RepositoryInterface
	storage   ObjectStorage
	processor *storage.ImageProcessor
	cache     cache.Cache
	queue     queue.Enqueuer
}

func NewCoverService(
	repo repository.RepositoryInterface,
	objectStorage ObjectStorage,
	processor *storage.ImageProcessor,
	cache cache.Cache,
	q queue.Enqueuer,
) *CoverService {
	return &CoverService{
		repo:      repo,
		storage:   objectStorage,
		processor: processor,
		cache:     cache,
		queue:     q,
	}
}

func (s *CoverService) UploadCover(ctx context.Context, requester authz.Identity, bookID uuid.UUID, data []byte) (*model.CoverUploadResponse, error) {
	if s.storage == nil {
		return nil, model.ErrCoverUnavailable
	}
	if !requester.Can(authz.ActionUpdate, authz.ResourceBook) {
		return nil, model.ErrNotBookOwner
	}

	b, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && !requester.Owns(b.SellerID) {
		return nil, model.ErrNotBookOwner
	}

	ext, err := s.processor.ValidateImage(data)
	if err != nil {
		return nil, model.ErrInvalidCover.WithCause(err)
	}

	// 1. Upload ảnh gốc
	key := model.CoverOriginalKey(bookID.String(), ext)
	originalURL, err := s.storage.Upload(ctx, key, data, storage.ContentType(ext))
	if err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}

	// 2. image_url trỏ tạm về ảnh gốc cho tới khi variant xong
	if err := s.repo.UpdateImageURL(ctx, bookID, originalURL); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, bookCacheKey(bookID))

	// 3. Enqueue job resize
	processing := true
	task, err := utils.NewTask(shared.TypeProcessBookCover, model.ProcessCoverPayload{
		BookID:      bookID.String(),
		OriginalKey: key,
	})
	if err == nil {
		_, err = s.queue.EnqueueContext(ctx, task, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(2))
	}
	if err != nil {
		processing = false
		logger.Error("Failed to enqueue cover processing", err)
	}

	return &model.CoverUploadResponse{
		BookID:      bookID.String(),
		OriginalURL: originalURL,
		Processing:  processing,
	}, nil
}

// ProcessCover chạy ở worker
func (s *CoverService) ProcessCover(ctx context.Context, payload model.ProcessCoverPayload) error {
	bookID, err := uuid.Parse(payload.BookID)
	if err != nil {
		return fmt.Errorf("invalid book id %q: %v: %w", payload.BookID, err, asynq.SkipRetry)
	}

	original, err := s.storage.Download(ctx, payload.OriginalKey)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	variants, err := s.processor.ProcessImage(original)
	if err != nil {
		return fmt.Errorf("process cover: %v: %w", err, asynq.SkipRetry)
	}

	urls := make(map[string]string, len(variants))
	for _, v := range storage.CoverVariants {
		url, err := s.storage.Upload(ctx, model.CoverVariantKey(payload.BookID, v.Name), variants[v.Name], "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload %s variant: %w", v.Name, err)
		}
		urls[v.Name] = url
	}

	// Book bị xoá trong lúc xử lý → bỏ qua, worker delete sẽ dọn object
	if err := s.repo.UpdateImageURL(ctx, bookID, urls["medium"]); err != nil {
		if err == model.ErrBookNotFound {
			logger.Warn("Book deleted before cover processed", map[string]interface{}{"book_id": payload.BookID})
			return nil
		}
		return err
	}
	_ = s.cache.Delete(ctx, bookCacheKey(bookID))

	logger.Info("Cover variants uploaded", map[string]interface{}{
		"book_id":  payload.BookID,
		"variants": len(urls),
	})
	return nil
}

func (s *CoverService) DeleteCover(ctx context.Context, bookID string) error {
	if err := s.storage.DeleteByPrefix(ctx, model.CoverPrefix(bookID)); err != nil {
		return fmt.Errorf("delete cover objects: %w", err)
	}
	return nil
}
