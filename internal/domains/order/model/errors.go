package model

import "bookstore-marketplace/internal/shared/apperror"

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound      = apperror.NotFound("ORD001", "Order not found")
	ErrBookNotFound       = apperror.NotFound("ORD002", "Could not find the provided book")
	ErrInvalidTransition  = apperror.Validation("ORD003", "Invalid order status transition")
	ErrInvalidStatus      = apperror.Validation("ORD004", "Status must be one of Pending, Shipped, Delivered, Cancelled")
	ErrEmptyUpdate        = apperror.Validation("ORD005", "No fields to update")
	ErrForbidden          = apperror.Forbidden("ORD006", "You are not allowed to modify this order")
	ErrPriceChangeDenied  = apperror.Forbidden("ORD007", "Only admins can change the order price")
	ErrInvalidOrderID     = apperror.Validation("ORD008", "Invalid order id")
	ErrInvalidBookID      = apperror.Validation("ORD009", "Invalid book id")
	ErrInvalidFilter      = apperror.Validation("ORD010", "Invalid order filter")
	ErrDeleteDenied       = apperror.Forbidden("ORD011", "Only admins can delete orders")
	ErrListAllDenied      = apperror.Forbidden("ORD012", "Only admins can list all orders")
	ErrBuyerCancelOnly    = apperror.Forbidden("ORD013", "Buyers can only cancel their own orders")
	ErrOrderAlreadyClosed = apperror.Validation("ORD014", "Order is already closed")
	ErrStatusChanged      = apperror.Conflict("ORD015", "Order status was changed by another request, please reload")
)
