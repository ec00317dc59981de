package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"lesson not found", apperrors.ErrLessonNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"email not verified", apperrors.ErrEmailNotVerified, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"lesson full", apperrors.ErrLessonFull, http.StatusConflict, dto.ErrorCodeLessonFull},
		{"duplicate booking", apperrors.ErrBookingExists, http.StatusConflict, dto.ErrorCodeBookingNotAllowed},
		{"overlapping booking", apperrors.ErrBookingOverlap, http.StatusConflict, dto.ErrorCodeBookingOverlap},
		{"cancellation closed", apperrors.ErrBookingNotCancellable, http.StatusConflict, dto.ErrorCodeCancellationClosed},
		{"duplicate review", apperrors.ErrReviewExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"review too early", apperrors.ErrReviewTooEarly, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"provider failure", apperrors.ErrPaymentProviderFailure, http.StatusBadGateway, dto.ErrorCodePaymentProvider},
		{"bad webhook signature", apperrors.ErrWebhookSignatureInvalid, http.StatusBadRequest, dto.ErrorCodeWebhookInvalid},
		{"invalid rating", apperrors.ErrInvalidReviewRating, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown error", assert.AnError, http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(recorder)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			HandleAPIError(ctx, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var resp dto.APIResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
