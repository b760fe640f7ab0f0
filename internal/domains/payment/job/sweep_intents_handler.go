package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-marketplace/internal/domains/payment/service"
	"bookstore-marketplace/internal/infrastructure/queue"
)

const defaultSweepLimit = 100

// SweepIntentsHandler - cron task, bắt intent mà task expire bị mất
type SweepIntentsHandler struct {
	payments service.PaymentService
	limit    int
}

func NewSweepIntentsHandler(payments service.PaymentService, limit int) *SweepIntentsHandler {
	if limit <= 0 {
		limit = defaultSweepLimit
	}
	return &SweepIntentsHandler{payments: payments, limit: limit}
}

func (h *SweepIntentsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	// limit trong payload của cron ưu tiên hơn default
	limit := h.limit
	var payload queue.SweepExpiredIntentsPayload
	if len(task.Payload()) > 0 && json.Unmarshal(task.Payload(), &payload) == nil && payload.Limit > 0 {
		limit = payload.Limit
	}

	expired, err := h.payments.SweepExpired(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep stale payment intents")
		return fmt.Errorf("sweep stale intents: %w", err)
	}

	if expired > 0 {
		log.Info().Int("expired", expired).Msg("Stale payment intents expired")
	}
	return nil
}
