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

// DeleteCoverHandler xoá mọi object books/<id>/ sau khi book bị xoá
type DeleteCoverHandler struct {
	covers service.CoverServiceInterface
}

func NewDeleteCoverHandler(covers service.CoverServiceInterface) *DeleteCoverHandler {
	return &DeleteCoverHandler{covers: covers}
}

func (h *DeleteCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.DeleteCoverPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteCover payload")
		return err
	}

	if err := h.covers.DeleteCover(ctx, payload.BookID); err != nil {
		log.Error().Err(err).Str("book_id", payload.BookID).Msg("Failed to delete cover objects")
		return fmt.Errorf("delete cover: %w", err)
	}

	log.Info().Str("book_id", payload.BookID).Msg("Book cover objects deleted")
	return nil
}
