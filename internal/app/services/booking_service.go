package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/logger"
	"github.com/mkaraca/sideout/internal/pkg/payments"
)

// bookingStore is the booking persistence surface used by BookingService
type bookingStore interface {
	CreateBooking(ctx context.Context, q repositories.Querier, booking *models.Booking) (int64, error)
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	ListByPlayer(ctx context.Context, playerID int64, offset, limit int) ([]*models.Booking, int64, error)
	ListByLesson(ctx context.Context, lessonID int64) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, q repositories.Querier, id int64, status models.BookingStatus) error
	SetPaymentIntent(ctx context.Context, q repositories.Querier, id int64, intentID string) error
	HasActiveForLesson(ctx context.Context, q repositories.Querier, lessonID, playerID int64) (bool, error)
	HasOverlappingBooking(ctx context.Context, q repositories.Querier, playerID int64, startsAt, endsAt time.Time) (bool, error)
}

// lessonStore is the lesson persistence surface used by BookingService
type lessonStore interface {
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	GetLessonForUpdate(ctx context.Context, q repositories.Querier, id int64) (*models.Lesson, error)
}

// instructorStore resolves instructor profiles for ownership checks
type instructorStore interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*models.InstructorProfile, error)
}

// paymentStore is the payment persistence surface used by BookingService
type paymentStore interface {
	CreatePayment(ctx context.Context, q repositories.Querier, payment *models.Payment) (int64, error)
	UpdateStatusByIntentID(ctx context.Context, q repositories.Querier, intentID string, status models.PaymentStatus) error
}

// BookingService handles the booking lifecycle: reservation, payment intent
// creation and cancellation with refunds.
type BookingService struct {
	tx           TxRunner
	bookings     bookingStore
	lessons      lessonStore
	instructors  instructorStore
	payments     paymentStore
	provider     payments.Provider
	cancelCutoff time.Duration
}

// NewBookingService creates a new BookingService
func NewBookingService(
	tx TxRunner,
	bookings *repositories.BookingRepository,
	lessons *repositories.LessonRepository,
	instructors *repositories.InstructorRepository,
	paymentRepo *repositories.PaymentRepository,
	provider payments.Provider,
	cancelCutoffHours int,
) *BookingService {
	return &BookingService{
		tx:           tx,
		bookings:     bookings,
		lessons:      lessons,
		instructors:  instructors,
		payments:     paymentRepo,
		provider:     provider,
		cancelCutoff: time.Duration(cancelCutoffHours) * time.Hour,
	}
}

// CreateBooking reserves a spot in a lesson and creates the payment intent.
// The lesson row is locked for the duration of the transaction so concurrent
// bookings cannot oversell the capacity.
func (s *BookingService) CreateBooking(ctx context.Context, playerID, lessonID int64) (*models.Booking, string, error) {
	var (
		bookingID    int64
		intentID     string
		clientSecret string
	)

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		lesson, err := s.lessons.GetLessonForUpdate(ctx, tx, lessonID)
		if err != nil {
			return err
		}

		if lesson.Status != models.LessonScheduled || !lesson.StartsAt.After(time.Now()) {
			return apperrors.ErrLessonNotBookable
		}

		profile, err := s.instructors.GetProfileByUserID(ctx, playerID)
		if err == nil && profile.ID == lesson.InstructorID {
			return apperrors.ErrOwnLessonBooking
		}
		if err != nil && !errors.Is(err, apperrors.ErrInstructorNotFound) {
			return err
		}

		if lesson.BookedCount >= lesson.Capacity {
			return apperrors.ErrLessonFull
		}

		dup, err := s.bookings.HasActiveForLesson(ctx, tx, lessonID, playerID)
		if err != nil {
			return err
		}
		if dup {
			return apperrors.ErrBookingExists
		}

		overlap, err := s.bookings.HasOverlappingBooking(ctx, tx, playerID, lesson.StartsAt, lesson.EndsAt)
		if err != nil {
			return err
		}
		if overlap {
			return apperrors.ErrBookingOverlap
		}

		booking := &models.Booking{
			LessonID: lessonID,
			PlayerID: playerID,
			Status:   models.BookingPending,
			Amount:   lesson.Price,
			Currency: lesson.Currency,
		}

		bookingID, err = s.bookings.CreateBooking(ctx, tx, booking)
		if err != nil {
			return err
		}

		intent, err := s.provider.CreateIntent(ctx, lesson.PriceCents(), lesson.Currency, map[string]string{
			"booking_id": strconv.FormatInt(bookingID, 10),
			"lesson_id":  strconv.FormatInt(lessonID, 10),
			"player_id":  strconv.FormatInt(playerID, 10),
		})
		if err != nil {
			return err
		}
		intentID = intent.ID
		clientSecret = intent.ClientSecret

		if err := s.bookings.SetPaymentIntent(ctx, tx, bookingID, intent.ID); err != nil {
			return err
		}

		_, err = s.payments.CreatePayment(ctx, tx, &models.Payment{
			BookingID:        bookingID,
			ProviderIntentID: intent.ID,
			Status:           models.PaymentRequiresPayment,
			Amount:           lesson.Price,
			Currency:         lesson.Currency,
		})
		return err
	})

	if err != nil {
		// The intent outlives a rolled back transaction; void it so the
		// player is never charged for a booking that does not exist.
		if intentID != "" {
			if cancelErr := s.provider.CancelIntent(ctx, intentID); cancelErr != nil {
				logger.Warn().Err(cancelErr).Str("intentID", intentID).Msg("Failed to cancel orphaned payment intent")
			}
		}
		return nil, "", err
	}

	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	return booking, clientSecret, nil
}

// GetBooking retrieves a booking the user may see: the booking player or the
// instructor of the booked lesson.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PlayerID == userID {
		return booking, nil
	}

	profile, err := s.instructors.GetProfileByUserID(ctx, userID)
	if err == nil && booking.Lesson != nil && booking.Lesson.InstructorID == profile.ID {
		return booking, nil
	}

	return nil, apperrors.ErrPermissionDenied
}

// ListMyBookings retrieves the calling player's bookings
func (s *BookingService) ListMyBookings(ctx context.Context, playerID int64, offset, limit int) ([]*models.Booking, int64, error) {
	return s.bookings.ListByPlayer(ctx, playerID, offset, limit)
}

// ListLessonBookings retrieves the roster of a lesson for its instructor
func (s *BookingService) ListLessonBookings(ctx context.Context, userID, lessonID int64) ([]*models.Booking, error) {
	profile, err := s.instructors.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.lessons.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.InstructorID != profile.ID {
		return nil, apperrors.ErrPermissionDenied
	}

	return s.bookings.ListByLesson(ctx, lessonID)
}

// CancelBooking cancels the player's own booking. Confirmed bookings are
// refunded in full; pending ones just void the intent. Cancellation closes
// at the configured cutoff before the lesson start.
func (s *BookingService) CancelBooking(ctx context.Context, playerID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PlayerID != playerID {
		return nil, apperrors.ErrPermissionDenied
	}

	if !booking.Active() {
		return nil, apperrors.ErrBookingNotCancellable
	}

	if booking.Lesson != nil && time.Until(booking.Lesson.StartsAt) < s.cancelCutoff {
		return nil, apperrors.ErrBookingNotCancellable
	}

	targetStatus := models.BookingCancelled
	paymentStatus := models.PaymentFailed

	if booking.PaymentIntentID != nil {
		switch booking.Status {
		case models.BookingConfirmed:
			if err := s.provider.Refund(ctx, *booking.PaymentIntentID); err != nil {
				return nil, err
			}
			targetStatus = models.BookingRefunded
			paymentStatus = models.PaymentRefunded
		case models.BookingPending:
			if err := s.provider.CancelIntent(ctx, *booking.PaymentIntentID); err != nil {
				logger.Warn().Err(err).Str("intentID", *booking.PaymentIntentID).Msg("Failed to cancel pending payment intent")
			}
		}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.bookings.UpdateStatus(ctx, tx, bookingID, targetStatus); err != nil {
			return err
		}
		if booking.PaymentIntentID != nil {
			if err := s.payments.UpdateStatusByIntentID(ctx, tx, *booking.PaymentIntentID, paymentStatus); err != nil {
				if !errors.Is(err, apperrors.ErrPaymentNotFound) {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if targetStatus == models.BookingRefunded {
			// The refund already went through at the provider
			logger.Error().Err(err).
				Int64("bookingID", bookingID).
				Str("intentID", *booking.PaymentIntentID).
				Msg("Refund issued but booking state update failed, reconcile before retrying")
		}
		return nil, err
	}

	return s.bookings.GetBookingByID(ctx, bookingID)
}
