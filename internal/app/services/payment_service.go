package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/email"
	"github.com/mkaraca/sideout/internal/pkg/logger"
	"github.com/mkaraca/sideout/internal/pkg/payments"
)

// webhookBookingStore is the booking surface used while processing webhooks
type webhookBookingStore interface {
	GetByPaymentIntentID(ctx context.Context, intentID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, q repositories.Querier, id int64, status models.BookingStatus) error
}

// userStore resolves users for transactional email
type userStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// PaymentService processes provider webhook events and keeps bookings and
// payment records in sync with the provider-side intent state.
type PaymentService struct {
	tx           TxRunner
	bookings     webhookBookingStore
	payments     paymentStore
	users        userStore
	provider     payments.Provider
	emailService email.EmailService
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	tx TxRunner,
	bookings *repositories.BookingRepository,
	paymentRepo *repositories.PaymentRepository,
	users *repositories.UserRepository,
	provider payments.Provider,
	emailService email.EmailService,
) *PaymentService {
	return &PaymentService{
		tx:           tx,
		bookings:     bookings,
		payments:     paymentRepo,
		users:        users,
		provider:     provider,
		emailService: emailService,
	}
}

// HandleWebhook verifies and applies a provider webhook event. Events for
// unknown intents and repeated deliveries are acknowledged without changes so
// the provider stops retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.provider.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}

	if event.IntentID == "" {
		logger.Debug().Str("type", event.Type).Msg("Ignoring webhook event without payment intent")
		return nil
	}

	booking, err := s.bookings.GetByPaymentIntentID(ctx, event.IntentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrBookingNotFound) {
			logger.Warn().Str("intentID", event.IntentID).Str("type", event.Type).Msg("Webhook for unknown payment intent")
			return nil
		}
		return err
	}

	switch event.Type {
	case payments.EventPaymentSucceeded:
		return s.applyPaymentSucceeded(ctx, booking)
	case payments.EventPaymentFailed, payments.EventPaymentCanceled:
		return s.applyPaymentFailed(ctx, booking)
	default:
		logger.Debug().Str("type", event.Type).Msg("Ignoring unhandled webhook event type")
		return nil
	}
}

func (s *PaymentService) applyPaymentSucceeded(ctx context.Context, booking *models.Booking) error {
	if booking.Status != models.BookingPending {
		// Duplicate delivery or a charge that raced a cancellation
		logger.Info().
			Int64("bookingID", booking.ID).
			Str("status", string(booking.Status)).
			Msg("Payment succeeded for non-pending booking, no state change")
		return nil
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingConfirmed); err != nil {
			return err
		}
		return s.payments.UpdateStatusByIntentID(ctx, tx, *booking.PaymentIntentID, models.PaymentSucceeded)
	})
	if err != nil {
		return err
	}

	s.sendConfirmationEmail(ctx, booking)
	return nil
}

func (s *PaymentService) applyPaymentFailed(ctx context.Context, booking *models.Booking) error {
	if booking.Status != models.BookingPending {
		return nil
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingCancelled); err != nil {
			return err
		}
		return s.payments.UpdateStatusByIntentID(ctx, tx, *booking.PaymentIntentID, models.PaymentFailed)
	})
}

func (s *PaymentService) sendConfirmationEmail(ctx context.Context, booking *models.Booking) {
	player, err := s.users.GetUserByID(ctx, booking.PlayerID)
	if err != nil {
		logger.Warn().Err(err).Int64("bookingID", booking.ID).Msg("Failed to load player for confirmation email")
		return
	}

	lessonTitle := ""
	locationName := ""
	var startsAt = booking.CreatedAt
	if booking.Lesson != nil {
		lessonTitle = booking.Lesson.Title
		startsAt = booking.Lesson.StartsAt
		if booking.Lesson.Location != nil {
			locationName = booking.Lesson.Location.Name
		}
	}

	if err := s.emailService.SendBookingConfirmationEmail(
		player.Email, player.FirstName, lessonTitle, startsAt, locationName); err != nil {
		logger.Warn().Err(err).Int64("bookingID", booking.ID).Msg("Failed to send booking confirmation email")
	}
}
