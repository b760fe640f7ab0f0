package model

import "bookstore-marketplace/internal/shared/apperror"

var (
	ErrBookNotFound     = apperror.NotFound("BOK001", "Book not found")
	ErrNotBookOwner     = apperror.Forbidden("BOK002", "You can only modify your own books")
	ErrEmptyUpdate      = apperror.Validation("BOK003", "No fields to update")
	ErrInvalidSellerID  = apperror.Validation("BOK004", "Invalid sellerId")
	ErrInvalidBookID    = apperror.Validation("BOK005", "Invalid book id")
	ErrInvalidCover     = apperror.Validation("BOK006", "Cover must be a JPEG or PNG image up to 5MB")
	ErrCoverUnavailable = apperror.New(apperror.KindInternal, "BOK007", "Cover storage is not configured")
)
