package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Instructor errors
var (
	ErrInstructorNotFound      = errors.New("instructor not found")
	ErrInstructorProfileExists = errors.New("instructor profile already exists")
)

// Location errors
var (
	ErrLocationNotFound     = errors.New("location not found")
	ErrLocationHasRelations = errors.New("location has scheduled lessons and cannot be deleted")
)

// Lesson errors
var (
	ErrLessonNotFound        = errors.New("lesson not found")
	ErrLessonNotBookable     = errors.New("lesson is not open for booking")
	ErrLessonFull            = errors.New("lesson has no remaining spots")
	ErrLessonInPast          = errors.New("lesson start time is in the past")
	ErrLessonOverlap         = errors.New("lesson overlaps another lesson of the same instructor")
	ErrLessonHasBookings     = errors.New("lesson has confirmed bookings")
	ErrInvalidLessonTimes    = errors.New("lesson end time must be after start time")
	ErrInvalidSkillLevel     = errors.New("invalid skill level")
	ErrInvalidLessonPrice    = errors.New("lesson price must not be negative")
	ErrInvalidLessonCapacity = errors.New("lesson capacity out of range")
)

// Booking errors
var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingExists         = errors.New("player already booked this lesson")
	ErrBookingOverlap        = errors.New("player has an overlapping booking")
	ErrBookingNotCancellable = errors.New("booking can no longer be cancelled")
	ErrOwnLessonBooking      = errors.New("instructors cannot book their own lessons")
)

// Payment errors
var (
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentProviderFailure  = errors.New("payment provider request failed")
	ErrWebhookSignatureInvalid = errors.New("webhook signature verification failed")
)

// Review errors
var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewExists        = errors.New("booking already has a review")
	ErrReviewTooEarly      = errors.New("lesson has not finished yet")
	ErrReviewNotPermitted  = errors.New("no confirmed booking for this lesson")
	ErrInvalidReviewRating = errors.New("rating must be between 1 and 5")
)

// Email verification errors
var (
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrInvalidEmailToken    = errors.New("invalid or expired email verification token")
	ErrEmailAlreadyVerified = errors.New("email already verified")
)

// Password reset errors
var (
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
	ErrPasswordResetTokenUsed    = errors.New("password reset token has already been used")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
