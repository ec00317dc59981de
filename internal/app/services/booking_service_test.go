package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

func scheduledLesson(capacity, booked int) *models.Lesson {
	starts := time.Now().Add(48 * time.Hour)
	return &models.Lesson{
		ID:           10,
		InstructorID: 3,
		LocationID:   2,
		Title:        "Serve receive fundamentals",
		Capacity:     capacity,
		Price:        decimal.NewFromFloat(45.00),
		Currency:     "usd",
		StartsAt:     starts,
		EndsAt:       starts.Add(90 * time.Minute),
		Status:       models.LessonScheduled,
		BookedCount:  booked,
	}
}

func newBookingService(bookings *fakeBookingStore, lessons *fakeLessonStore, instructors *fakeInstructorStore, pays *fakePaymentStore, provider *fakeProvider) *BookingService {
	return &BookingService{
		tx:           &fakeTx{},
		bookings:     bookings,
		lessons:      lessons,
		instructors:  instructors,
		payments:     pays,
		provider:     provider,
		cancelCutoff: 24 * time.Hour,
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	bookings := newFakeBookingStore()
	lessons := &fakeLessonStore{lesson: scheduledLesson(8, 0)}
	pays := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := newBookingService(bookings, lessons, &fakeInstructorStore{}, pays, provider)

	booking, clientSecret, err := svc.CreateBooking(context.Background(), 7, 10)
	require.NoError(t, err)

	assert.Equal(t, "pi_test_secret", clientSecret)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, int64(7), booking.PlayerID)
	assert.Equal(t, "usd", booking.Currency)

	// Intent amount is in cents
	require.Len(t, provider.createdAmounts, 1)
	assert.Equal(t, int64(4500), provider.createdAmounts[0])

	// The payment record tracks the new intent
	require.Len(t, pays.created, 1)
	assert.Equal(t, models.PaymentRequiresPayment, pays.created[0].Status)
	assert.Equal(t, "pi_test", pays.created[0].ProviderIntentID)
	assert.Equal(t, "pi_test", bookings.intentsSet[booking.ID])
}

func TestCreateBookingLessonFull(t *testing.T) {
	bookings := newFakeBookingStore()
	lessons := &fakeLessonStore{lesson: scheduledLesson(4, 4)}
	provider := &fakeProvider{}
	svc := newBookingService(bookings, lessons, &fakeInstructorStore{}, newFakePaymentStore(), provider)

	_, _, err := svc.CreateBooking(context.Background(), 7, 10)
	assert.ErrorIs(t, err, apperrors.ErrLessonFull)
	assert.Empty(t, bookings.created)
	assert.Empty(t, provider.createdAmounts)
}

func TestCreateBookingDuplicate(t *testing.T) {
	bookings := newFakeBookingStore()
	bookings.hasActive = true
	svc := newBookingService(bookings, &fakeLessonStore{lesson: scheduledLesson(8, 1)},
		&fakeInstructorStore{}, newFakePaymentStore(), &fakeProvider{})

	_, _, err := svc.CreateBooking(context.Background(), 7, 10)
	assert.ErrorIs(t, err, apperrors.ErrBookingExists)
}

func TestCreateBookingOverlap(t *testing.T) {
	bookings := newFakeBookingStore()
	bookings.hasOverlap = true
	svc := newBookingService(bookings, &fakeLessonStore{lesson: scheduledLesson(8, 1)},
		&fakeInstructorStore{}, newFakePaymentStore(), &fakeProvider{})

	_, _, err := svc.CreateBooking(context.Background(), 7, 10)
	assert.ErrorIs(t, err, apperrors.ErrBookingOverlap)
}

func TestCreateBookingOwnLesson(t *testing.T) {
	lesson := scheduledLesson(8, 0)
	instructors := &fakeInstructorStore{profile: &models.InstructorProfile{ID: lesson.InstructorID, UserID: 7}}
	svc := newBookingService(newFakeBookingStore(), &fakeLessonStore{lesson: lesson},
		instructors, newFakePaymentStore(), &fakeProvider{})

	_, _, err := svc.CreateBooking(context.Background(), 7, 10)
	assert.ErrorIs(t, err, apperrors.ErrOwnLessonBooking)
}

func TestCreateBookingNotBookable(t *testing.T) {
	cases := map[string]func(l *models.Lesson){
		"cancelled lesson": func(l *models.Lesson) { l.Status = models.LessonCancelled },
		"already started":  func(l *models.Lesson) { l.StartsAt = time.Now().Add(-time.Hour) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			lesson := scheduledLesson(8, 0)
			mutate(lesson)
			svc := newBookingService(newFakeBookingStore(), &fakeLessonStore{lesson: lesson},
				&fakeInstructorStore{}, newFakePaymentStore(), &fakeProvider{})

			_, _, err := svc.CreateBooking(context.Background(), 7, 10)
			assert.ErrorIs(t, err, apperrors.ErrLessonNotBookable)
		})
	}
}

func TestCreateBookingCancelsOrphanedIntent(t *testing.T) {
	// The intent is created mid-transaction; if a later step fails the
	// rollback must be followed by an intent cancellation.
	bookings := newFakeBookingStore()
	provider := &fakeProvider{}
	svc := newBookingService(bookings, &fakeLessonStore{lesson: scheduledLesson(8, 0)},
		&fakeInstructorStore{}, newFakePaymentStore(), provider)
	svc.payments = &failingPaymentStore{}

	_, _, err := svc.CreateBooking(context.Background(), 7, 10)
	require.Error(t, err)
	assert.Equal(t, []string{"pi_test"}, provider.cancelled)
}

type failingPaymentStore struct {
	fakePaymentStore
}

func (f *failingPaymentStore) CreatePayment(ctx context.Context, q repositories.Querier, payment *models.Payment) (int64, error) {
	return 0, errors.New("insert failed")
}

func TestGetBookingPermissions(t *testing.T) {
	bookings := newFakeBookingStore()
	lesson := scheduledLesson(8, 1)
	booking := &models.Booking{ID: 1, LessonID: lesson.ID, PlayerID: 7, Status: models.BookingConfirmed, Lesson: lesson}
	bookings.byID[1] = booking

	instructors := &fakeInstructorStore{profile: &models.InstructorProfile{ID: lesson.InstructorID, UserID: 20}}
	svc := newBookingService(bookings, &fakeLessonStore{lesson: lesson}, instructors, newFakePaymentStore(), &fakeProvider{})

	got, err := svc.GetBooking(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, booking, got)

	got, err = svc.GetBooking(context.Background(), 20, 1)
	require.NoError(t, err)
	assert.Equal(t, booking, got)

	_, err = svc.GetBooking(context.Background(), 99, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCancelBookingCutoff(t *testing.T) {
	bookings := newFakeBookingStore()
	lesson := scheduledLesson(8, 1)
	lesson.StartsAt = time.Now().Add(2 * time.Hour)
	intent := "pi_cutoff"
	bookings.byID[1] = &models.Booking{
		ID: 1, LessonID: lesson.ID, PlayerID: 7,
		Status: models.BookingConfirmed, PaymentIntentID: &intent, Lesson: lesson,
	}
	svc := newBookingService(bookings, &fakeLessonStore{lesson: lesson}, &fakeInstructorStore{}, newFakePaymentStore(), &fakeProvider{})

	_, err := svc.CancelBooking(context.Background(), 7, 1)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotCancellable)
}

func TestCancelBookingConfirmedRefunds(t *testing.T) {
	bookings := newFakeBookingStore()
	lesson := scheduledLesson(8, 1)
	intent := "pi_refund"
	bookings.byID[1] = &models.Booking{
		ID: 1, LessonID: lesson.ID, PlayerID: 7,
		Status: models.BookingConfirmed, PaymentIntentID: &intent, Lesson: lesson,
	}
	pays := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := newBookingService(bookings, &fakeLessonStore{lesson: lesson}, &fakeInstructorStore{}, pays, provider)

	booking, err := svc.CancelBooking(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, models.BookingRefunded, booking.Status)
	assert.Equal(t, []string{"pi_refund"}, provider.refunded)
	assert.Equal(t, models.PaymentRefunded, pays.statusByIntent["pi_refund"])
}

func TestCancelBookingPendingVoidsIntent(t *testing.T) {
	bookings := newFakeBookingStore()
	lesson := scheduledLesson(8, 1)
	intent := "pi_pending"
	bookings.byID[1] = &models.Booking{
		ID: 1, LessonID: lesson.ID, PlayerID: 7,
		Status: models.BookingPending, PaymentIntentID: &intent, Lesson: lesson,
	}
	pays := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := newBookingService(bookings, &fakeLessonStore{lesson: lesson}, &fakeInstructorStore{}, pays, provider)

	booking, err := svc.CancelBooking(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, booking.Status)
	assert.Equal(t, []string{"pi_pending"}, provider.cancelled)
	assert.Empty(t, provider.refunded)
	assert.Equal(t, models.PaymentFailed, pays.statusByIntent["pi_pending"])
}

func TestCancelBookingStateUpdateFailureAfterRefund(t *testing.T) {
	bookings := newFakeBookingStore()
	lesson := scheduledLesson(8, 1)
	intent := "pi_refund"
	bookings.byID[1] = &models.Booking{
		ID: 1, LessonID: lesson.ID, PlayerID: 7,
		Status: models.BookingConfirmed, PaymentIntentID: &intent, Lesson: lesson,
	}
	bookings.updateStatusErr = errors.New("deadlock detected")
	pays := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := newBookingService(bookings, &fakeLessonStore{lesson: lesson}, &fakeInstructorStore{}, pays, provider)

	_, err := svc.CancelBooking(context.Background(), 7, 1)
	require.Error(t, err)

	// The refund already happened at the provider; the returned error is the
	// caller's cue that local state needs reconciliation.
	assert.Equal(t, []string{"pi_refund"}, provider.refunded)
	assert.Empty(t, pays.statusByIntent)
}

func TestCancelBookingWrongPlayer(t *testing.T) {
	bookings := newFakeBookingStore()
	lesson := scheduledLesson(8, 1)
	bookings.byID[1] = &models.Booking{ID: 1, LessonID: lesson.ID, PlayerID: 7, Status: models.BookingConfirmed, Lesson: lesson}
	svc := newBookingService(bookings, &fakeLessonStore{lesson: lesson}, &fakeInstructorStore{}, newFakePaymentStore(), &fakeProvider{})

	_, err := svc.CancelBooking(context.Background(), 8, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListLessonBookingsRequiresOwnership(t *testing.T) {
	lesson := scheduledLesson(8, 1)
	instructors := &fakeInstructorStore{profile: &models.InstructorProfile{ID: 99, UserID: 20}}
	svc := newBookingService(newFakeBookingStore(), &fakeLessonStore{lesson: lesson}, instructors, newFakePaymentStore(), &fakeProvider{})

	_, err := svc.ListLessonBookings(context.Background(), 20, lesson.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
