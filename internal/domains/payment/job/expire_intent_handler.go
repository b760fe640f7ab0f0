package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-marketplace/internal/domains/payment/model"
	"bookstore-marketplace/internal/domains/payment/service"
	"bookstore-marketplace/internal/shared/utils"
)

// ExpireIntentHandler - chạy sau PAYMENT_INTENT_TTL kể từ lúc tạo intent
type ExpireIntentHandler struct {
	payments service.PaymentService
}

func NewExpireIntentHandler(payments service.PaymentService) *ExpireIntentHandler {
	return &ExpireIntentHandler{payments: payments}
}

func (h *ExpireIntentHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.ExpireIntentPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ExpireIntent payload")
		return err
	}

	intentID, err := uuid.Parse(payload.IntentID)
	if err != nil {
		return fmt.Errorf("invalid intent id %q: %w", payload.IntentID, asynq.SkipRetry)
	}

	expired, err := h.payments.ExpireIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, model.ErrIntentNotFound) {
			log.Warn().Str("intent_id", payload.IntentID).Msg("Payment intent not found, skipping expiry")
			return nil
		}
		log.Error().Err(err).Str("intent_id", payload.IntentID).Msg("Failed to expire payment intent")
		return fmt.Errorf("expire intent: %w", err)
	}

	log.Info().
		Str("intent_id", payload.IntentID).
		Bool("expired", expired).
		Msg("Payment intent expiry processed")
	return nil
}
