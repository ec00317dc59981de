package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/logger"
)

// HandleAPIError maps application errors onto HTTP responses with the
// standard error envelope. Controllers call it after a failed service call.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Not found
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrInstructorNotFound),
		errors.Is(err, apperrors.ErrLocationNotFound),
		errors.Is(err, apperrors.ErrLessonNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound),
		errors.Is(err, apperrors.ErrReviewNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error())

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled")

	// Authorization
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Email not verified")

	// Conflicts
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrInstructorProfileExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Instructor profile already exists")
	case errors.Is(err, apperrors.ErrReviewExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Booking already has a review")
	case errors.Is(err, apperrors.ErrLocationHasRelations),
		errors.Is(err, apperrors.ErrLessonHasBookings),
		errors.Is(err, apperrors.ErrLessonOverlap),
		errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, err.Error())

	// Booking rules
	case errors.Is(err, apperrors.ErrLessonFull):
		respond(c, http.StatusConflict, dto.ErrorCodeLessonFull, "Lesson has no remaining spots")
	case errors.Is(err, apperrors.ErrBookingExists):
		respond(c, http.StatusConflict, dto.ErrorCodeBookingNotAllowed, "You already booked this lesson")
	case errors.Is(err, apperrors.ErrBookingOverlap):
		respond(c, http.StatusConflict, dto.ErrorCodeBookingOverlap, "You have an overlapping booking")
	case errors.Is(err, apperrors.ErrOwnLessonBooking):
		respond(c, http.StatusConflict, dto.ErrorCodeBookingNotAllowed, "Instructors cannot book their own lessons")
	case errors.Is(err, apperrors.ErrLessonNotBookable), errors.Is(err, apperrors.ErrLessonInPast):
		respond(c, http.StatusConflict, dto.ErrorCodeBookingNotAllowed, err.Error())
	case errors.Is(err, apperrors.ErrBookingNotCancellable):
		respond(c, http.StatusConflict, dto.ErrorCodeCancellationClosed, "Booking can no longer be cancelled")

	// Review rules
	case errors.Is(err, apperrors.ErrReviewTooEarly), errors.Is(err, apperrors.ErrReviewNotPermitted):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, err.Error())

	// Payments
	case errors.Is(err, apperrors.ErrPaymentProviderFailure):
		respond(c, http.StatusBadGateway, dto.ErrorCodePaymentProvider, "Payment provider request failed")
	case errors.Is(err, apperrors.ErrWebhookSignatureInvalid):
		respond(c, http.StatusBadRequest, dto.ErrorCodeWebhookInvalid, "Webhook signature verification failed")

	// Validation
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidLessonTimes),
		errors.Is(err, apperrors.ErrInvalidSkillLevel),
		errors.Is(err, apperrors.ErrInvalidLessonPrice),
		errors.Is(err, apperrors.ErrInvalidLessonCapacity),
		errors.Is(err, apperrors.ErrInvalidReviewRating):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	// Email verification tokens
	case errors.Is(err, apperrors.ErrInvalidEmailToken),
		errors.Is(err, apperrors.ErrInvalidPasswordResetToken),
		errors.Is(err, apperrors.ErrPasswordResetTokenUsed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidToken, err.Error())
	case errors.Is(err, apperrors.ErrEmailAlreadyVerified):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, "Email already verified")

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
