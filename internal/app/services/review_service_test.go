package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

type fakeReviewStore struct {
	byID    map[int64]*models.Review
	nextID  int64
	deleted []int64
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{byID: map[int64]*models.Review{}, nextID: 1}
}

func (f *fakeReviewStore) CreateReview(ctx context.Context, review *models.Review) (int64, error) {
	for _, r := range f.byID {
		if r.BookingID == review.BookingID {
			return 0, apperrors.ErrReviewExists
		}
	}
	id := f.nextID
	f.nextID++
	review.ID = id
	f.byID[id] = review
	return id, nil
}

func (f *fakeReviewStore) GetReviewByID(ctx context.Context, id int64) (*models.Review, error) {
	review, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrReviewNotFound
	}
	return review, nil
}

func (f *fakeReviewStore) ListByLesson(ctx context.Context, lessonID int64, offset, limit int) ([]*models.Review, int64, error) {
	var out []*models.Review
	for _, r := range f.byID {
		if r.LessonID == lessonID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewStore) ListByInstructor(ctx context.Context, instructorID int64, offset, limit int) ([]*models.Review, int64, error) {
	return nil, 0, nil
}

func (f *fakeReviewStore) DeleteReview(ctx context.Context, id int64) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func completedLesson() *models.Lesson {
	return &models.Lesson{
		ID:       10,
		Title:    "Serve receive fundamentals",
		StartsAt: time.Now().Add(-3 * time.Hour),
		EndsAt:   time.Now().Add(-90 * time.Minute),
		Status:   models.LessonCompleted,
	}
}

func confirmedBooking(bookings *fakeBookingStore, lessonID, playerID int64) *models.Booking {
	booking := &models.Booking{ID: 1, LessonID: lessonID, PlayerID: playerID, Status: models.BookingConfirmed}
	bookings.byID[booking.ID] = booking
	return booking
}

func TestCreateReviewSuccess(t *testing.T) {
	reviews := newFakeReviewStore()
	bookings := newFakeBookingStore()
	lesson := completedLesson()
	confirmedBooking(bookings, lesson.ID, 7)
	svc := &ReviewService{reviews: reviews, bookings: bookings, lessons: &fakeLessonStore{lesson: lesson}}

	comment := "Great footwork drills"
	review, err := svc.CreateReview(context.Background(), 7, lesson.ID, &dto.CreateReviewRequest{Rating: 5, Comment: &comment})
	require.NoError(t, err)

	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, int64(1), review.BookingID)
	assert.Equal(t, int64(7), review.PlayerID)
}

func TestCreateReviewWithoutBooking(t *testing.T) {
	lesson := completedLesson()
	svc := &ReviewService{reviews: newFakeReviewStore(), bookings: newFakeBookingStore(), lessons: &fakeLessonStore{lesson: lesson}}

	_, err := svc.CreateReview(context.Background(), 7, lesson.ID, &dto.CreateReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrReviewNotPermitted)
}

func TestCreateReviewBeforeLessonEnds(t *testing.T) {
	lesson := completedLesson()
	lesson.Status = models.LessonScheduled
	lesson.StartsAt = time.Now().Add(24 * time.Hour)
	lesson.EndsAt = time.Now().Add(26 * time.Hour)

	bookings := newFakeBookingStore()
	confirmedBooking(bookings, lesson.ID, 7)
	svc := &ReviewService{reviews: newFakeReviewStore(), bookings: bookings, lessons: &fakeLessonStore{lesson: lesson}}

	_, err := svc.CreateReview(context.Background(), 7, lesson.ID, &dto.CreateReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrReviewTooEarly)
}

func TestCreateReviewInvalidRating(t *testing.T) {
	svc := &ReviewService{reviews: newFakeReviewStore(), bookings: newFakeBookingStore(), lessons: &fakeLessonStore{lesson: completedLesson()}}

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), 7, 10, &dto.CreateReviewRequest{Rating: rating})
		assert.ErrorIs(t, err, apperrors.ErrInvalidReviewRating)
	}
}

func TestCreateReviewTwiceForSameBooking(t *testing.T) {
	reviews := newFakeReviewStore()
	bookings := newFakeBookingStore()
	lesson := completedLesson()
	confirmedBooking(bookings, lesson.ID, 7)
	svc := &ReviewService{reviews: reviews, bookings: bookings, lessons: &fakeLessonStore{lesson: lesson}}

	_, err := svc.CreateReview(context.Background(), 7, lesson.ID, &dto.CreateReviewRequest{Rating: 5})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), 7, lesson.ID, &dto.CreateReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, apperrors.ErrReviewExists)
}

func TestDeleteOwnReview(t *testing.T) {
	reviews := newFakeReviewStore()
	reviews.byID[5] = &models.Review{ID: 5, PlayerID: 7}
	svc := &ReviewService{reviews: reviews, bookings: newFakeBookingStore(), lessons: &fakeLessonStore{}}

	err := svc.DeleteOwnReview(context.Background(), 8, 5)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.DeleteOwnReview(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, reviews.deleted)
}
