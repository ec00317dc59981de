package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/email"
	"github.com/mkaraca/sideout/internal/pkg/logger"
	"github.com/mkaraca/sideout/internal/pkg/payments"
)

// lessonRepository is the lesson persistence surface used by LessonService
type lessonRepository interface {
	CreateLesson(ctx context.Context, lesson *models.Lesson) (int64, error)
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessons(ctx context.Context, filter *dto.LessonFilter, offset, limit int) ([]*models.Lesson, int64, error)
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateStatus(ctx context.Context, q repositories.Querier, id int64, status models.LessonStatus) error
	HasOverlappingLesson(ctx context.Context, instructorID int64, startsAt, endsAt time.Time, excludeLessonID int64) (bool, error)
	HasActiveBookings(ctx context.Context, lessonID int64) (bool, error)
	CompleteFinishedLessons(ctx context.Context) (int64, error)
}

// lessonLocationStore resolves locations when scheduling lessons
type lessonLocationStore interface {
	GetLocationByID(ctx context.Context, id int64) (*models.Location, error)
}

// lessonBookingStore is the booking surface used when cancelling a lesson
type lessonBookingStore interface {
	ListByLesson(ctx context.Context, lessonID int64) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, q repositories.Querier, id int64, status models.BookingStatus) error
}

// lessonPaymentStore keeps payment records in sync with refunds and voids
type lessonPaymentStore interface {
	UpdateStatusByIntentID(ctx context.Context, q repositories.Querier, intentID string, status models.PaymentStatus) error
}

// LessonService handles lesson scheduling and lifecycle
type LessonService struct {
	tx              TxRunner
	lessonRepo      lessonRepository
	locationRepo    lessonLocationStore
	instructorRepo  instructorStore
	bookingRepo     lessonBookingStore
	paymentRepo     lessonPaymentStore
	paymentProvider payments.Provider
	emailService    email.EmailService
	currency        string
}

// NewLessonService creates a new LessonService
func NewLessonService(
	tx TxRunner,
	lessonRepo *repositories.LessonRepository,
	locationRepo *repositories.LocationRepository,
	instructorRepo *repositories.InstructorRepository,
	bookingRepo *repositories.BookingRepository,
	paymentRepo *repositories.PaymentRepository,
	paymentProvider payments.Provider,
	emailService email.EmailService,
	currency string,
) *LessonService {
	return &LessonService{
		tx:              tx,
		lessonRepo:      lessonRepo,
		locationRepo:    locationRepo,
		instructorRepo:  instructorRepo,
		bookingRepo:     bookingRepo,
		paymentRepo:     paymentRepo,
		paymentProvider: paymentProvider,
		emailService:    emailService,
		currency:        currency,
	}
}

func validateLessonWindow(startsAt, endsAt time.Time) error {
	if !endsAt.After(startsAt) {
		return apperrors.ErrInvalidLessonTimes
	}
	if startsAt.Before(time.Now()) {
		return apperrors.ErrLessonInPast
	}
	return nil
}

// CreateLesson schedules a new lesson for the calling instructor
func (s *LessonService) CreateLesson(ctx context.Context, userID int64, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	profile, err := s.instructorRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := validateLessonWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	if req.Price.IsNegative() {
		return nil, apperrors.ErrInvalidLessonPrice
	}

	if _, err := s.locationRepo.GetLocationByID(ctx, req.LocationID); err != nil {
		return nil, err
	}

	overlap, err := s.lessonRepo.HasOverlappingLesson(ctx, profile.ID, req.StartsAt, req.EndsAt, 0)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperrors.ErrLessonOverlap
	}

	lesson := &models.Lesson{
		InstructorID: profile.ID,
		LocationID:   req.LocationID,
		Title:        req.Title,
		Description:  req.Description,
		SkillLevel:   models.SkillLevel(req.SkillLevel),
		Capacity:     req.Capacity,
		Price:        req.Price,
		Currency:     s.currency,
		StartsAt:     req.StartsAt.UTC(),
		EndsAt:       req.EndsAt.UTC(),
		Status:       models.LessonScheduled,
	}

	id, err := s.lessonRepo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}

	return s.lessonRepo.GetLessonByID(ctx, id)
}

// GetLesson retrieves a lesson with relations
func (s *LessonService) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	return s.lessonRepo.GetLessonByID(ctx, id)
}

// ListLessons retrieves the lesson calendar
func (s *LessonService) ListLessons(ctx context.Context, filter *dto.LessonFilter, offset, limit int) ([]*models.Lesson, int64, error) {
	return s.lessonRepo.ListLessons(ctx, filter, offset, limit)
}

// ownedLesson loads a lesson and verifies the user is its instructor
func (s *LessonService) ownedLesson(ctx context.Context, userID, lessonID int64) (*models.Lesson, error) {
	profile, err := s.instructorRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.InstructorID != profile.ID {
		return nil, apperrors.ErrPermissionDenied
	}

	return lesson, nil
}

// UpdateLesson updates a lesson the calling instructor owns. Once bookings
// exist the time window and location are frozen and capacity cannot drop
// below the booked count.
func (s *LessonService) UpdateLesson(ctx context.Context, userID, lessonID int64, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.ownedLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.Status != models.LessonScheduled {
		return nil, apperrors.NewConflictError("only scheduled lessons can be updated")
	}

	if req.Price.IsNegative() {
		return nil, apperrors.ErrInvalidLessonPrice
	}

	hasBookings, err := s.lessonRepo.HasActiveBookings(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if hasBookings {
		if !req.StartsAt.UTC().Equal(lesson.StartsAt) || !req.EndsAt.UTC().Equal(lesson.EndsAt) {
			return nil, apperrors.ErrLessonHasBookings
		}
		if req.LocationID != lesson.LocationID {
			return nil, apperrors.ErrLessonHasBookings
		}
		if req.Capacity < lesson.BookedCount {
			return nil, apperrors.ErrInvalidLessonCapacity
		}
	} else {
		if err := validateLessonWindow(req.StartsAt, req.EndsAt); err != nil {
			return nil, err
		}
		if _, err := s.locationRepo.GetLocationByID(ctx, req.LocationID); err != nil {
			return nil, err
		}
		overlap, err := s.lessonRepo.HasOverlappingLesson(ctx, lesson.InstructorID, req.StartsAt, req.EndsAt, lessonID)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, apperrors.ErrLessonOverlap
		}
	}

	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.SkillLevel = models.SkillLevel(req.SkillLevel)
	lesson.Capacity = req.Capacity
	lesson.Price = req.Price
	lesson.LocationID = req.LocationID
	lesson.StartsAt = req.StartsAt.UTC()
	lesson.EndsAt = req.EndsAt.UTC()

	if err := s.lessonRepo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}

	return s.lessonRepo.GetLessonByID(ctx, lessonID)
}

// CancelLesson cancels a lesson and refunds every booking that holds a spot.
// When confirmed bookings exist the caller must pass cancelBookings to
// acknowledge the cascade, otherwise the cancellation is refused.
func (s *LessonService) CancelLesson(ctx context.Context, userID, lessonID int64, cancelBookings bool) error {
	lesson, err := s.ownedLesson(ctx, userID, lessonID)
	if err != nil {
		return err
	}

	if lesson.Status != models.LessonScheduled {
		return apperrors.NewConflictError("lesson is not scheduled")
	}

	bookings, err := s.bookingRepo.ListByLesson(ctx, lessonID)
	if err != nil {
		return err
	}

	if !cancelBookings {
		for _, booking := range bookings {
			if booking.Status == models.BookingConfirmed {
				return apperrors.ErrLessonHasBookings
			}
		}
	}

	for _, booking := range bookings {
		if !booking.Active() {
			continue
		}
		if err := s.releaseBooking(ctx, booking); err != nil {
			logger.Error().Err(err).Int64("bookingID", booking.ID).Msg("Failed to release booking during lesson cancellation")
		}
	}

	if err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.lessonRepo.UpdateStatus(ctx, tx, lessonID, models.LessonCancelled)
	}); err != nil {
		return err
	}

	s.notifyCancellations(ctx, lesson, bookings)
	return nil
}

// releaseBooking refunds or voids a single booking when its lesson is cancelled
func (s *LessonService) releaseBooking(ctx context.Context, booking *models.Booking) error {
	targetStatus := models.BookingCancelled
	paymentStatus := models.PaymentFailed

	if booking.PaymentIntentID != nil {
		switch booking.Status {
		case models.BookingConfirmed:
			if err := s.paymentProvider.Refund(ctx, *booking.PaymentIntentID); err != nil {
				return err
			}
			targetStatus = models.BookingRefunded
			paymentStatus = models.PaymentRefunded
		case models.BookingPending:
			if err := s.paymentProvider.CancelIntent(ctx, *booking.PaymentIntentID); err != nil {
				logger.Warn().Err(err).Str("intentID", *booking.PaymentIntentID).Msg("Failed to cancel pending payment intent")
			}
		}
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, targetStatus); err != nil {
			return err
		}
		if booking.PaymentIntentID != nil {
			if err := s.paymentRepo.UpdateStatusByIntentID(ctx, tx, *booking.PaymentIntentID, paymentStatus); err != nil {
				logger.Warn().Err(err).Int64("bookingID", booking.ID).Msg("No payment record to update")
			}
		}
		return nil
	})
}

func (s *LessonService) notifyCancellations(ctx context.Context, lesson *models.Lesson, bookings []*models.Booking) {
	for _, booking := range bookings {
		if !booking.Active() || booking.Player == nil {
			continue
		}
		refunded := booking.Status == models.BookingConfirmed
		if err := s.emailService.SendBookingCancellationEmail(
			booking.Player.Email, booking.Player.FirstName, lesson.Title, refunded); err != nil {
			logger.Warn().Err(err).Int64("bookingID", booking.ID).Msg("Failed to send cancellation email")
		}
	}
}

// CompleteFinishedLessons transitions past lessons to COMPLETED. Run periodically.
func (s *LessonService) CompleteFinishedLessons(ctx context.Context) (int64, error) {
	return s.lessonRepo.CompleteFinishedLessons(ctx)
}
