package user

import "bookstore-marketplace/internal/shared/apperror"

// Repository-level errors
var (
	ErrUserNotFound       = apperror.NotFound("USR001", "User not found")
	ErrEmailAlreadyExists = apperror.Conflict("USR002", "This email is already in use. Please login.")
)

// Service-level errors
var (
	ErrInvalidCredentials = apperror.Unauthorized("USR003", "Invalid credentials")
	ErrMissingToken       = apperror.Validation("USR004", "Invalid or missing token.")
	ErrInvalidToken       = apperror.Forbidden("USR005", "Invalid token")
	ErrNoUserForToken     = apperror.NotFound("USR006", "No user found with the token.")
	ErrRoleChangeDenied   = apperror.Forbidden("USR007", "Only admins can change roles")
	ErrForbidden          = apperror.Forbidden("USR008", "You can only modify your own account")
	ErrEmptyUpdate        = apperror.Validation("USR009", "No fields to update")
	ErrInvalidUserID      = apperror.Validation("USR010", "Invalid user id")
	ErrInvalidBookID      = apperror.Validation("USR011", "Invalid book id")
)
