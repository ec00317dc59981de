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

func TestValidateLessonWindow(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name     string
		startsAt time.Time
		endsAt   time.Time
		wantErr  error
	}{
		{"valid window", future, future.Add(time.Hour), nil},
		{"end before start", future.Add(time.Hour), future, apperrors.ErrInvalidLessonTimes},
		{"zero length", future, future, apperrors.ErrInvalidLessonTimes},
		{"starts in the past", time.Now().Add(-time.Hour), time.Now().Add(time.Hour), apperrors.ErrLessonInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLessonWindow(tt.startsAt, tt.endsAt)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func newLessonService(lessons *fakeLessonRepo, bookings *fakeBookingStore, pays *fakePaymentStore, provider *fakeProvider, mail *fakeEmailService, profile *models.InstructorProfile) *LessonService {
	return &LessonService{
		tx:              &fakeTx{},
		lessonRepo:      lessons,
		locationRepo:    &fakeLocationStore{},
		instructorRepo:  &fakeInstructorStore{profile: profile},
		bookingRepo:     bookings,
		paymentRepo:     pays,
		paymentProvider: provider,
		emailService:    mail,
		currency:        "usd",
	}
}

func rosterBooking(id int64, status models.BookingStatus, intentID, playerEmail string) *models.Booking {
	intent := intentID
	return &models.Booking{
		ID:              id,
		LessonID:        10,
		PlayerID:        id + 100,
		Status:          status,
		PaymentIntentID: &intent,
		Player:          &models.User{ID: id + 100, Email: playerEmail, FirstName: "Player"},
	}
}

func TestCancelLessonCascadesRefundsAndVoids(t *testing.T) {
	lessons := newFakeLessonRepo()
	lessons.byID[10] = scheduledLesson(8, 3)

	bookings := newFakeBookingStore()
	bookings.byID[1] = rosterBooking(1, models.BookingConfirmed, "pi_paid", "paid@example.com")
	bookings.byID[2] = rosterBooking(2, models.BookingPending, "pi_open", "open@example.com")
	bookings.byID[3] = rosterBooking(3, models.BookingCancelled, "pi_gone", "gone@example.com")

	pays := newFakePaymentStore()
	provider := &fakeProvider{}
	mail := &fakeEmailService{}
	svc := newLessonService(lessons, bookings, pays, provider, mail, &models.InstructorProfile{ID: 3, UserID: 9})

	require.NoError(t, svc.CancelLesson(context.Background(), 9, 10, true))

	assert.Equal(t, models.LessonCancelled, lessons.statusUpdates[10])

	// Paid spot refunded, open one voided, the already-cancelled one untouched
	assert.Equal(t, []string{"pi_paid"}, provider.refunded)
	assert.Equal(t, []string{"pi_open"}, provider.cancelled)
	assert.Equal(t, models.BookingRefunded, bookings.statusUpdates[1])
	assert.Equal(t, models.BookingCancelled, bookings.statusUpdates[2])
	assert.NotContains(t, bookings.statusUpdates, int64(3))

	assert.Equal(t, models.PaymentRefunded, pays.statusByIntent["pi_paid"])
	assert.Equal(t, models.PaymentFailed, pays.statusByIntent["pi_open"])

	// Every player who held a spot is notified
	notified := map[string]bool{}
	for _, sent := range mail.cancellations {
		notified[sent.to] = true
	}
	assert.Equal(t, map[string]bool{"paid@example.com": true, "open@example.com": true}, notified)
}

func TestCancelLessonRequiresCascadeFlag(t *testing.T) {
	lessons := newFakeLessonRepo()
	lessons.byID[10] = scheduledLesson(8, 1)

	bookings := newFakeBookingStore()
	bookings.byID[1] = rosterBooking(1, models.BookingConfirmed, "pi_paid", "paid@example.com")

	provider := &fakeProvider{}
	svc := newLessonService(lessons, bookings, newFakePaymentStore(), provider, &fakeEmailService{}, &models.InstructorProfile{ID: 3, UserID: 9})

	err := svc.CancelLesson(context.Background(), 9, 10, false)
	assert.ErrorIs(t, err, apperrors.ErrLessonHasBookings)
	assert.Empty(t, provider.refunded)
	assert.Empty(t, lessons.statusUpdates)
}

func TestCancelLessonWrongInstructor(t *testing.T) {
	lessons := newFakeLessonRepo()
	lessons.byID[10] = scheduledLesson(8, 0)

	svc := newLessonService(lessons, newFakeBookingStore(), newFakePaymentStore(), &fakeProvider{}, &fakeEmailService{}, &models.InstructorProfile{ID: 4, UserID: 9})

	err := svc.CancelLesson(context.Background(), 9, 10, true)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateLessonFrozenOnceBooked(t *testing.T) {
	baseRequest := func(l *models.Lesson) *dto.UpdateLessonRequest {
		return &dto.UpdateLessonRequest{
			LocationID: l.LocationID,
			Title:      l.Title,
			SkillLevel: "INTERMEDIATE",
			Capacity:   l.Capacity,
			Price:      l.Price,
			StartsAt:   l.StartsAt,
			EndsAt:     l.EndsAt,
		}
	}

	tests := []struct {
		name    string
		mutate  func(req *dto.UpdateLessonRequest)
		wantErr error
	}{
		{"shifted start time", func(req *dto.UpdateLessonRequest) { req.StartsAt = req.StartsAt.Add(time.Hour) }, apperrors.ErrLessonHasBookings},
		{"different location", func(req *dto.UpdateLessonRequest) { req.LocationID = 99 }, apperrors.ErrLessonHasBookings},
		{"capacity below booked count", func(req *dto.UpdateLessonRequest) { req.Capacity = 2 }, apperrors.ErrInvalidLessonCapacity},
		{"capacity increase allowed", func(req *dto.UpdateLessonRequest) { req.Capacity = 12 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lessons := newFakeLessonRepo()
			lessons.byID[10] = scheduledLesson(8, 5)
			lessons.activeBookings = true

			svc := newLessonService(lessons, newFakeBookingStore(), newFakePaymentStore(), &fakeProvider{}, &fakeEmailService{}, &models.InstructorProfile{ID: 3, UserID: 9})

			req := baseRequest(lessons.byID[10])
			tt.mutate(req)

			updated, err := svc.UpdateLesson(context.Background(), 9, 10, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, lessons.updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, req.Capacity, updated.Capacity)
			require.Len(t, lessons.updated, 1)
		})
	}
}
