package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a gin binding error into a structured
// ErrorDetail with a readable message for the first failed field.
func HandleValidationError(err error) *ErrorDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request payload")
	}

	fieldErr := validationErrors[0]
	field := lowerFirst(fieldErr.Field())

	var message string
	switch fieldErr.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", field)
	case "email":
		message = fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		message = fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max":
		message = fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	case "oneof":
		message = fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "gte":
		message = fmt.Sprintf("%s must be greater than or equal to %s", field, fieldErr.Param())
	case "lte":
		message = fmt.Sprintf("%s must be less than or equal to %s", field, fieldErr.Param())
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}

	return NewErrorDetail(ErrorCodeValidationFailed, message).WithField(field)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
