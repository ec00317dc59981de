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

// LocationController handles beach location management
type LocationController struct {
	locationService *services.LocationService
	logger          zerolog.Logger
}

// NewLocationController creates a new LocationController
func NewLocationController(locationService *services.LocationService, logger zerolog.Logger) *LocationController {
	return &LocationController{
		locationService: locationService,
		logger:          logger,
	}
}

// ListLocations lists beach locations
// @Summary List locations
// @Tags locations
// @Produce json
// @Param city query string false "Filter by city"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.LocationListResponse}
// @Router /locations [get]
func (c *LocationController) ListLocations(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	locations, total, err := c.locationService.ListLocations(ctx.Request.Context(), ctx.Query("city"), int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.LocationListResponse{
		Locations:  make([]dto.LocationResponse, 0, len(locations)),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}
	for _, location := range locations {
		resp.Locations = append(resp.Locations, dto.FromLocation(location))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetLocation returns a location with its photos
// @Summary Get location
// @Tags locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} dto.APIResponse{data=dto.LocationResponse}
// @Failure 404 {object} dto.ErrorResponse "Location not found"
// @Router /locations/{id} [get]
func (c *LocationController) GetLocation(ctx *gin.Context) {
	locationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	location, err := c.locationService.GetLocation(ctx.Request.Context(), locationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromLocation(location),
		Timestamp: time.Now(),
	})
}

// CreateLocation creates a new location
// @Summary Create location
// @Description Adds a beach location to the catalog. Instructor only.
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLocationRequest true "Location fields"
// @Success 201 {object} dto.APIResponse{data=dto.LocationResponse}
// @Router /locations [post]
func (c *LocationController) CreateLocation(ctx *gin.Context) {
	var req dto.CreateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	location, err := c.locationService.CreateLocation(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to create location")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("locationID", location.ID).Str("name", location.Name).Msg("Location created")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromLocation(location),
		Timestamp: time.Now(),
	})
}

// UpdateLocation updates an existing location
// @Summary Update location
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Param request body dto.UpdateLocationRequest true "Location fields"
// @Success 200 {object} dto.APIResponse{data=dto.LocationResponse}
// @Failure 404 {object} dto.ErrorResponse "Location not found"
// @Router /locations/{id} [put]
func (c *LocationController) UpdateLocation(ctx *gin.Context) {
	locationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	location, err := c.locationService.UpdateLocation(ctx.Request.Context(), locationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromLocation(location),
		Timestamp: time.Now(),
	})
}

// DeleteLocation removes a location without lessons
// @Summary Delete location
// @Tags locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 409 {object} dto.ErrorResponse "Location has scheduled lessons"
// @Router /locations/{id} [delete]
func (c *LocationController) DeleteLocation(ctx *gin.Context) {
	locationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.locationService.DeleteLocation(ctx.Request.Context(), locationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Location deleted"},
		Timestamp: time.Now(),
	})
}

// AddLocationPhoto uploads a photo for a location
// @Summary Add location photo
// @Tags locations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Param photo formData file true "Photo file (max 5 MB)"
// @Success 200 {object} dto.APIResponse{data=dto.LocationResponse}
// @Router /locations/{id}/photos [post]
func (c *LocationController) AddLocationPhoto(ctx *gin.Context) {
	locationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "photo file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if fileHeader.Size > maxUploadSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "photo must not exceed 5 MB")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	location, err := c.locationService.AddPhoto(ctx.Request.Context(), locationID, userID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromLocation(location),
		Timestamp: time.Now(),
	})
}

// RemoveLocationPhoto unlinks a photo from a location
// @Summary Remove location photo
// @Tags locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Param fileId path int true "Photo file ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /locations/{id}/photos/{fileId} [delete]
func (c *LocationController) RemoveLocationPhoto(ctx *gin.Context) {
	locationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileID, ok := parseIDParam(ctx, "fileId")
	if !ok {
		return
	}

	if err := c.locationService.RemovePhoto(ctx.Request.Context(), locationID, fileID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Photo removed"},
		Timestamp: time.Now(),
	})
}
