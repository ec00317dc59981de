package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/services"
	"github.com/mkaraca/sideout/internal/middleware"
)

// PaymentController handles payment provider callbacks
type PaymentController struct {
	paymentService *services.PaymentService
	logger         zerolog.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService *services.PaymentService, logger zerolog.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         logger,
	}
}

// HandleStripeWebhook receives payment events from Stripe
// @Summary Stripe webhook
// @Description Verifies the event signature and applies payment outcomes to bookings. Events for unknown intents are acknowledged so the provider stops retrying.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Event signature"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid signature or unreadable payload"
// @Router /payments/webhook [post]
func (c *PaymentController) HandleStripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read webhook payload")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "unreadable request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	signature := ctx.GetHeader("Stripe-Signature")

	if err := c.paymentService.HandleWebhook(ctx.Request.Context(), payload, signature); err != nil {
		c.logger.Warn().Err(err).Msg("Webhook rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Event processed"},
		Timestamp: time.Now(),
	})
}
