package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/services"
	"github.com/mkaraca/sideout/internal/middleware"
)

// ReviewController handles review removal; creation and listing live on the
// lesson and instructor routes.
type ReviewController struct {
	reviewService *services.ReviewService
	logger        zerolog.Logger
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService *services.ReviewService, logger zerolog.Logger) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		logger:        logger,
	}
}

// DeleteReview deletes a review written by the caller
// @Summary Delete own review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the review's author"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [delete]
func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	reviewID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reviewService.DeleteOwnReview(ctx.Request.Context(), userID, reviewID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("reviewID", reviewID).Int64("userID", userID).Msg("Review deleted")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Review deleted"},
		Timestamp: time.Now(),
	})
}
