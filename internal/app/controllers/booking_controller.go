package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/services"
	"github.com/mkaraca/sideout/internal/middleware"
	"github.com/mkaraca/sideout/internal/pkg/helpers"
)

// BookingController handles player bookings
type BookingController struct {
	bookingService *services.BookingService
	logger         zerolog.Logger
}

// NewBookingController creates a new BookingController
func NewBookingController(bookingService *services.BookingService, logger zerolog.Logger) *BookingController {
	return &BookingController{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateBooking books a spot in a lesson
// @Summary Create booking
// @Description Reserves a spot in a lesson and opens a payment intent. The booking stays PENDING until the client confirms the charge with the returned client secret.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Lesson to book"
// @Success 201 {object} dto.APIResponse{data=dto.CreateBookingResponse}
// @Failure 409 {object} dto.ErrorResponse "Lesson full, already booked or overlapping booking"
// @Failure 502 {object} dto.ErrorResponse "Payment provider unavailable"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	booking, clientSecret, err := c.bookingService.CreateBooking(ctx.Request.Context(), userID, req.LessonID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Int64("lessonID", req.LessonID).Msg("Booking failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("bookingID", booking.ID).Int64("lessonID", req.LessonID).Msg("Booking created")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.CreateBookingResponse{
			Booking:      dto.FromBooking(booking),
			ClientSecret: clientSecret,
		},
		Timestamp: time.Now(),
	})
}

// ListMyBookings lists the caller's bookings
// @Summary List own bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.BookingListResponse}
// @Router /bookings [get]
func (c *BookingController) ListMyBookings(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	bookings, total, err := c.bookingService.ListMyBookings(ctx.Request.Context(), userID, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.BookingListResponse{
		Bookings:   make([]dto.BookingResponse, 0, len(bookings)),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}
	for _, booking := range bookings {
		resp.Bookings = append(resp.Bookings, dto.FromBooking(booking))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetBooking returns a single booking
// @Summary Get booking
// @Description Returns a booking. Visible to the booking's player and the lesson's instructor.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookingResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the player or instructor of this booking"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /bookings/{id} [get]
func (c *BookingController) GetBooking(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	bookingID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.bookingService.GetBooking(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromBooking(booking),
		Timestamp: time.Now(),
	})
}

// CancelBooking cancels the caller's booking
// @Summary Cancel booking
// @Description Cancels a booking before the cancellation cutoff. Confirmed bookings are refunded.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookingResponse}
// @Failure 409 {object} dto.ErrorResponse "Cutoff passed or booking not active"
// @Router /bookings/{id} [delete]
func (c *BookingController) CancelBooking(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	bookingID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.bookingService.CancelBooking(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("bookingID", bookingID).Str("status", string(booking.Status)).Msg("Booking cancelled")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromBooking(booking),
		Timestamp: time.Now(),
	})
}
