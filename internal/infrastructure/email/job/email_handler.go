package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-marketplace/internal/infrastructure/email"
	"bookstore-marketplace/internal/shared/utils"
)

// ErrRecipientNotFound - user đã bị xoá, không gửi nữa
var ErrRecipientNotFound = errors.New("receipt recipient not found")

// Recipient - người nhận email
type Recipient struct {
	Email    string
	Username string
}

// RecipientResolver tra email của user theo id
type RecipientResolver interface {
	ResolveRecipient(ctx context.Context, userID uuid.UUID) (*Recipient, error)
}

// PaymentReceiptPayload - payload của task email:payment_receipt
type PaymentReceiptPayload struct {
	UserID          string `json:"user_id"`
	Receipt         string `json:"receipt"`
	ProviderOrderID string `json:"provider_order_id"`
	PaymentID       string `json:"payment_id"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
}

// ============================================
// Payment Receipt Handler
// ============================================

type PaymentReceiptHandler struct {
	emailService email.EmailService
	recipients   RecipientResolver
}

func NewPaymentReceiptHandler(emailService email.EmailService, recipients RecipientResolver) *PaymentReceiptHandler {
	return &PaymentReceiptHandler{
		emailService: emailService,
		recipients:   recipients,
	}
}

func (h *PaymentReceiptHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload PaymentReceiptPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PaymentReceipt payload")
		return err
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", payload.UserID, asynq.SkipRetry)
	}

	recipient, err := h.recipients.ResolveRecipient(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRecipientNotFound) {
			log.Warn().Str("user_id", payload.UserID).Msg("Receipt recipient no longer exists, skipping")
			return nil
		}
		return fmt.Errorf("resolve recipient: %w", err)
	}

	log.Info().
		Str("email", recipient.Email).
		Str("receipt", payload.Receipt).
		Msg("Processing payment receipt email")

	err = h.emailService.SendPaymentReceipt(ctx, email.PaymentReceiptData{
		Email:           recipient.Email,
		Username:        recipient.Username,
		Receipt:         payload.Receipt,
		ProviderOrderID: payload.ProviderOrderID,
		PaymentID:       payload.PaymentID,
		Amount:          utils.FromMinorUnits(payload.AmountMinor).StringFixed(2),
		Currency:        payload.Currency,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send payment receipt email")
		return fmt.Errorf("send payment receipt email: %w", err)
	}

	log.Info().
		Str("email", recipient.Email).
		Msg("Payment receipt email sent successfully")
	return nil
}
