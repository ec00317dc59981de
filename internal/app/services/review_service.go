package services

import (
	"context"
	"time"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

// reviewStore is the review persistence surface used by ReviewService
type reviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) (int64, error)
	GetReviewByID(ctx context.Context, id int64) (*models.Review, error)
	ListByLesson(ctx context.Context, lessonID int64, offset, limit int) ([]*models.Review, int64, error)
	ListByInstructor(ctx context.Context, instructorID int64, offset, limit int) ([]*models.Review, int64, error)
	DeleteReview(ctx context.Context, id int64) error
}

// reviewBookingStore resolves the player's booking for review eligibility
type reviewBookingStore interface {
	GetPlayerBookingForLesson(ctx context.Context, lessonID, playerID int64) (*models.Booking, error)
}

// reviewLessonStore resolves lessons for review eligibility
type reviewLessonStore interface {
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
}

// ReviewService handles review collection for completed lessons
type ReviewService struct {
	reviews  reviewStore
	bookings reviewBookingStore
	lessons  reviewLessonStore
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviews *repositories.ReviewRepository,
	bookings *repositories.BookingRepository,
	lessons *repositories.LessonRepository,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		lessons:  lessons,
	}
}

// CreateReview leaves a review for a lesson the player attended. Only players
// with a confirmed booking can review, and only after the lesson has ended.
func (s *ReviewService) CreateReview(ctx context.Context, playerID, lessonID int64, req *dto.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.ErrInvalidReviewRating
	}

	lesson, err := s.lessons.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetPlayerBookingForLesson(ctx, lessonID, playerID)
	if err != nil {
		return nil, apperrors.ErrReviewNotPermitted
	}

	if lesson.Status != models.LessonCompleted && lesson.EndsAt.After(time.Now()) {
		return nil, apperrors.ErrReviewTooEarly
	}

	review := &models.Review{
		BookingID: booking.ID,
		LessonID:  lessonID,
		PlayerID:  playerID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	id, err := s.reviews.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}

	return s.reviews.GetReviewByID(ctx, id)
}

// ListLessonReviews retrieves a lesson's reviews
func (s *ReviewService) ListLessonReviews(ctx context.Context, lessonID int64, offset, limit int) ([]*models.Review, int64, error) {
	if _, err := s.lessons.GetLessonByID(ctx, lessonID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByLesson(ctx, lessonID, offset, limit)
}

// ListInstructorReviews retrieves reviews across an instructor's lessons
func (s *ReviewService) ListInstructorReviews(ctx context.Context, instructorID int64, offset, limit int) ([]*models.Review, int64, error) {
	return s.reviews.ListByInstructor(ctx, instructorID, offset, limit)
}

// DeleteOwnReview removes a review written by the calling player
func (s *ReviewService) DeleteOwnReview(ctx context.Context, playerID, reviewID int64) error {
	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.PlayerID != playerID {
		return apperrors.ErrPermissionDenied
	}

	return s.reviews.DeleteReview(ctx, reviewID)
}
