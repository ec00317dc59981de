package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/services"
	"github.com/mkaraca/sideout/internal/middleware"
	"github.com/mkaraca/sideout/internal/pkg/helpers"
)

// LessonController handles the lesson calendar and lifecycle
type LessonController struct {
	lessonService  *services.LessonService
	bookingService *services.BookingService
	reviewService  *services.ReviewService
	logger         zerolog.Logger
}

// NewLessonController creates a new LessonController
func NewLessonController(
	lessonService *services.LessonService,
	bookingService *services.BookingService,
	reviewService *services.ReviewService,
	logger zerolog.Logger,
) *LessonController {
	return &LessonController{
		lessonService:  lessonService,
		bookingService: bookingService,
		reviewService:  reviewService,
		logger:         logger,
	}
}

// parseLessonFilter reads calendar filters from the query string
func parseLessonFilter(ctx *gin.Context) (*dto.LessonFilter, *dto.ErrorDetail) {
	filter := &dto.LessonFilter{
		SkillLevel:    ctx.Query("skillLevel"),
		OnlyAvailable: ctx.Query("onlyAvailable") == "true",
	}

	if from := ctx.Query("from"); from != "" {
		value, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "from must be an RFC3339 timestamp").WithField("from")
		}
		filter.From = &value
	}
	if to := ctx.Query("to"); to != "" {
		value, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "to must be an RFC3339 timestamp").WithField("to")
		}
		filter.To = &value
	}
	if locationID := ctx.Query("locationId"); locationID != "" {
		value, err := strconv.ParseInt(locationID, 10, 64)
		if err != nil || value < 1 {
			return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "locationId must be a positive integer").WithField("locationId")
		}
		filter.LocationID = value
	}
	if instructorID := ctx.Query("instructorId"); instructorID != "" {
		value, err := strconv.ParseInt(instructorID, 10, 64)
		if err != nil || value < 1 {
			return nil, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "instructorId must be a positive integer").WithField("instructorId")
		}
		filter.InstructorID = value
	}

	return filter, nil
}

// ListLessons returns the lesson calendar
// @Summary List lessons
// @Description Lists scheduled lessons ordered by start time. Supports calendar range and availability filters.
// @Tags lessons
// @Produce json
// @Param from query string false "Start of the calendar window (RFC3339)"
// @Param to query string false "End of the calendar window (RFC3339)"
// @Param locationId query int false "Filter by location"
// @Param instructorId query int false "Filter by instructor"
// @Param skillLevel query string false "Filter by skill level" Enums(BEGINNER, INTERMEDIATE, ADVANCED, ALL)
// @Param onlyAvailable query bool false "Only lessons with open spots"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.LessonListResponse}
// @Router /lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	filter, errorDetail := parseLessonFilter(ctx)
	if errorDetail != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	lessons, total, err := c.lessonService.ListLessons(ctx.Request.Context(), filter, int(offset), limit)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list lessons")
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.LessonListResponse{
		Lessons:    make([]dto.LessonResponse, 0, len(lessons)),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}
	for _, lesson := range lessons {
		resp.Lessons = append(resp.Lessons, dto.FromLesson(lesson))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetLesson returns a single lesson
// @Summary Get lesson
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.lessonService.GetLesson(ctx.Request.Context(), lessonID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromLesson(lesson),
		Timestamp: time.Now(),
	})
}

// CreateLesson schedules a new lesson
// @Summary Create lesson
// @Description Schedules a lesson for the calling instructor. Instructor only.
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLessonRequest true "Lesson fields"
// @Success 201 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 409 {object} dto.ErrorResponse "Overlaps another lesson of the instructor"
// @Router /lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lesson, err := c.lessonService.CreateLesson(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to create lesson")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("lessonID", lesson.ID).Int64("userID", userID).Msg("Lesson created")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromLesson(lesson),
		Timestamp: time.Now(),
	})
}

// UpdateLesson updates a lesson the caller owns
// @Summary Update lesson
// @Description Updates a scheduled lesson. The time window and location are frozen once bookings exist.
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonRequest true "Lesson fields"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the lesson's instructor"
// @Failure 409 {object} dto.ErrorResponse "Lesson has bookings"
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lesson, err := c.lessonService.UpdateLesson(ctx.Request.Context(), userID, lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromLesson(lesson),
		Timestamp: time.Now(),
	})
}

// CancelLesson cancels a lesson and refunds its bookings
// @Summary Cancel lesson
// @Description Cancels a scheduled lesson. Refused while confirmed bookings exist unless cancelBookings=true, in which case they are refunded and players are notified.
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param cancelBookings query bool false "Cancel and refund confirmed bookings"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the lesson's instructor"
// @Failure 409 {object} dto.ErrorResponse "Confirmed bookings exist"
// @Router /lessons/{id} [delete]
func (c *LessonController) CancelLesson(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	cancelBookings := ctx.Query("cancelBookings") == "true"

	if err := c.lessonService.CancelLesson(ctx.Request.Context(), userID, lessonID, cancelBookings); err != nil {
		c.logger.Error().Err(err).Int64("lessonID", lessonID).Msg("Failed to cancel lesson")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("lessonID", lessonID).Msg("Lesson cancelled")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Lesson cancelled"},
		Timestamp: time.Now(),
	})
}

// ListLessonBookings returns the roster of a lesson for its instructor
// @Summary List lesson bookings
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.BookingResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the lesson's instructor"
// @Router /lessons/{id}/bookings [get]
func (c *LessonController) ListLessonBookings(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	bookings, err := c.bookingService.ListLessonBookings(ctx.Request.Context(), userID, lessonID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		resp = append(resp, dto.FromBooking(booking))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListLessonReviews lists a lesson's reviews
// @Summary List lesson reviews
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewListResponse}
// @Router /lessons/{id}/reviews [get]
func (c *LessonController) ListLessonReviews(ctx *gin.Context) {
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	reviews, total, err := c.reviewService.ListLessonReviews(ctx.Request.Context(), lessonID, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ReviewListResponse{
		Reviews:    make([]dto.ReviewResponse, 0, len(reviews)),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}
	for _, review := range reviews {
		resp.Reviews = append(resp.Reviews, dto.FromReview(review))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// CreateLessonReview leaves a review for a completed lesson
// @Summary Review a lesson
// @Description Leaves a review for a lesson the caller attended with a confirmed booking
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.CreateReviewRequest true "Rating and optional comment"
// @Success 201 {object} dto.APIResponse{data=dto.ReviewResponse}
// @Failure 403 {object} dto.ErrorResponse "No confirmed booking or lesson not finished"
// @Failure 409 {object} dto.ErrorResponse "Booking already reviewed"
// @Router /lessons/{id}/reviews [post]
func (c *LessonController) CreateLessonReview(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	review, err := c.reviewService.CreateReview(ctx.Request.Context(), userID, lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromReview(review),
		Timestamp: time.Now(),
	})
}
