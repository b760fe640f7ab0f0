package utils

import (
	"errors"

	"bookstore-marketplace/internal/shared/apperror"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const CodeValidation = "VAL001"

// ValidationError chuyển lỗi ozzo thành apperror Validation kèm chi tiết theo field
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}

	appErr := apperror.Validation(CodeValidation, "Invalid request data")

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for field, fe := range fieldErrs {
			details[field] = fe.Error()
		}
		return appErr.WithDetails(details)
	}

	return appErr.WithMessage(err.Error())
}

// Validate gọi Validate() của DTO và map lỗi
func Validate(v validation.Validatable) error {
	return ValidationError(v.Validate())
}
