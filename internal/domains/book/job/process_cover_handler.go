package job

import (
	"context"
	"fmt"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/domains/book/service"
	"bookstore-marketplace/internal/shared/utils"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ProcessCoverHandler resize ảnh bìa gốc thành các variant và cập nhật image_url
type ProcessCoverHandler struct {
	covers service.CoverServiceInterface
}

func NewProcessCoverHandler(covers service.CoverServiceInterface) *ProcessCoverHandler {
	return &ProcessCoverHandler{covers: covers}
}

func (h *ProcessCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.ProcessCoverPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessCover payload")
		return err
	}

	log.Info().
		Str("book_id", payload.BookID).
		Str("original_key", payload.OriginalKey).
		Msg("Processing book cover variants")

	if err := h.covers.ProcessCover(ctx, payload); err != nil {
		log.Error().
			Err(err).
			Str("book_id", payload.BookID).
			Msg("Failed to process book cover")
		return fmt.Errorf("process cover: %w", err)
	}

	return nil
}
