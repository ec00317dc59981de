package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/services"
	"github.com/mkaraca/sideout/internal/middleware"
	"github.com/mkaraca/sideout/internal/pkg/helpers"
)

// InstructorController handles instructor discovery and profile management
type InstructorController struct {
	instructorService *services.InstructorService
	reviewService     *services.ReviewService
	logger            zerolog.Logger
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService *services.InstructorService, reviewService *services.ReviewService, logger zerolog.Logger) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
		reviewService:     reviewService,
		logger:            logger,
	}
}

// ListInstructors lists instructors
// @Summary List instructors
// @Description Lists instructors ordered by rating. Filter by city, the skill level they teach, or minimum rating.
// @Tags instructors
// @Produce json
// @Param city query string false "Only instructors teaching in this city"
// @Param skillLevel query string false "Only instructors teaching lessons at this level" Enums(BEGINNER, INTERMEDIATE, ADVANCED, ALL)
// @Param minRating query number false "Minimum average rating"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorListResponse}
// @Router /instructors [get]
func (c *InstructorController) ListInstructors(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	filter := &dto.InstructorFilter{City: ctx.Query("city")}
	if skillLevel := ctx.Query("skillLevel"); skillLevel != "" {
		if !models.ValidSkillLevel(models.SkillLevel(skillLevel)) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "skillLevel must be one of BEGINNER, INTERMEDIATE, ADVANCED, ALL").WithField("skillLevel")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.SkillLevel = skillLevel
	}
	if minRating := ctx.Query("minRating"); minRating != "" {
		value, err := strconv.ParseFloat(minRating, 64)
		if err != nil || value < 0 || value > 5 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "minRating must be a number between 0 and 5").WithField("minRating")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.MinRating = value
	}

	instructors, total, err := c.instructorService.ListInstructors(ctx.Request.Context(), filter, int(offset), limit)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list instructors")
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.InstructorListResponse{
		Instructors: make([]dto.InstructorResponse, 0, len(instructors)),
		Pagination:  helpers.NewPaginationInfo(total, page, limit),
	}
	for _, instructor := range instructors {
		resp.Instructors = append(resp.Instructors, dto.FromInstructor(instructor))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetInstructor returns an instructor profile with upcoming lessons
// @Summary Get instructor detail
// @Tags instructors
// @Produce json
// @Param id path int true "Instructor profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorDetailResponse}
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [get]
func (c *InstructorController) GetInstructor(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	profile, lessons, err := c.instructorService.GetInstructorDetail(ctx.Request.Context(), instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.InstructorDetailResponse{
		InstructorResponse: dto.FromInstructor(profile),
		UpcomingLessons:    make([]dto.LessonResponse, 0, len(lessons)),
	}
	for _, lesson := range lessons {
		resp.UpcomingLessons = append(resp.UpcomingLessons, dto.FromLesson(lesson))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListInstructorReviews lists reviews across the instructor's lessons
// @Summary List instructor reviews
// @Tags instructors
// @Produce json
// @Param id path int true "Instructor profile ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewListResponse}
// @Router /instructors/{id}/reviews [get]
func (c *InstructorController) ListInstructorReviews(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	reviews, total, err := c.reviewService.ListInstructorReviews(ctx.Request.Context(), instructorID, int(offset), limit)
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

// UpdateMyProfile updates the calling instructor's profile
// @Summary Update own instructor profile
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateInstructorProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse}
// @Failure 404 {object} dto.ErrorResponse "Caller has no instructor profile"
// @Router /instructors/me [put]
func (c *InstructorController) UpdateMyProfile(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateInstructorProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.instructorService.UpdateOwnProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromInstructor(profile),
		Timestamp: time.Now(),
	})
}
