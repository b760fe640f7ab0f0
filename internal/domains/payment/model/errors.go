package model

import "bookstore-marketplace/internal/shared/apperror"

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrIntentNotFound    = apperror.NotFound("PAY001", "Payment intent not found")
	ErrSignatureMismatch = apperror.New(apperror.KindSignatureMismatch, "PAY002", "Invalid signature")
	ErrUpstream          = apperror.New(apperror.KindUpstream, "PAY003", "Payment provider is unavailable")
	ErrOrderNotFound     = apperror.NotFound("PAY004", "Order not found")
	ErrOrderNotOwned     = apperror.Forbidden("PAY005", "You can only pay for your own orders")
	ErrOrderAlreadyPaid  = apperror.Conflict("PAY006", "Order has already been paid")
	ErrAmountMismatch    = apperror.Validation("PAY007", "Amount does not match the order total")
	ErrInvalidAmount     = apperror.Validation("PAY008", "Amount must have at most 2 decimal places")
	ErrIntentClosed      = apperror.Conflict("PAY009", "Payment intent is no longer active")
	ErrOrderCancelled    = apperror.Validation("PAY010", "Cannot pay for a cancelled order")
	ErrIntentInProgress  = apperror.Conflict("PAY011", "A payment for this order is already in progress")
)
