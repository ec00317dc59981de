package services

import (
	"context"
	"time"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/db"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/payments"
)

// fakeTx runs the transaction function without a database. The nil pgx.Tx is
// fine because the fake stores ignore their Querier argument.
type fakeTx struct {
	err   error
	calls int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx, nil)
}

type fakeBookingStore struct {
	byID            map[int64]*models.Booking
	byIntent        map[string]*models.Booking
	hasActive       bool
	hasOverlap      bool
	createErr       error
	updateStatusErr error

	nextID        int64
	created       []*models.Booking
	statusUpdates map[int64]models.BookingStatus
	intentsSet    map[int64]string
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		byID:          map[int64]*models.Booking{},
		byIntent:      map[string]*models.Booking{},
		nextID:        1,
		statusUpdates: map[int64]models.BookingStatus{},
		intentsSet:    map[int64]string{},
	}
}

func (f *fakeBookingStore) CreateBooking(ctx context.Context, q repositories.Querier, booking *models.Booking) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	booking.ID = id
	f.created = append(f.created, booking)
	f.byID[id] = booking
	return id, nil
}

func (f *fakeBookingStore) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeBookingStore) GetByPaymentIntentID(ctx context.Context, intentID string) (*models.Booking, error) {
	booking, ok := f.byIntent[intentID]
	if !ok {
		return nil, apperrors.ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeBookingStore) ListByPlayer(ctx context.Context, playerID int64, offset, limit int) ([]*models.Booking, int64, error) {
	var out []*models.Booking
	for _, b := range f.byID {
		if b.PlayerID == playerID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingStore) ListByLesson(ctx context.Context, lessonID int64) ([]*models.Booking, error) {
	// Returns snapshots the way a fresh query would; later status updates
	// do not mutate rows handed out earlier.
	var out []*models.Booking
	for _, b := range f.byID {
		if b.LessonID == lessonID {
			snapshot := *b
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, q repositories.Querier, id int64, status models.BookingStatus) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	f.statusUpdates[id] = status
	if b, ok := f.byID[id]; ok {
		b.Status = status
	}
	return nil
}

func (f *fakeBookingStore) SetPaymentIntent(ctx context.Context, q repositories.Querier, id int64, intentID string) error {
	f.intentsSet[id] = intentID
	if b, ok := f.byID[id]; ok {
		b.PaymentIntentID = &intentID
		f.byIntent[intentID] = b
	}
	return nil
}

func (f *fakeBookingStore) HasActiveForLesson(ctx context.Context, q repositories.Querier, lessonID, playerID int64) (bool, error) {
	return f.hasActive, nil
}

func (f *fakeBookingStore) HasOverlappingBooking(ctx context.Context, q repositories.Querier, playerID int64, startsAt, endsAt time.Time) (bool, error) {
	return f.hasOverlap, nil
}

func (f *fakeBookingStore) GetPlayerBookingForLesson(ctx context.Context, lessonID, playerID int64) (*models.Booking, error) {
	for _, b := range f.byID {
		if b.LessonID == lessonID && b.PlayerID == playerID && b.Status == models.BookingConfirmed {
			return b, nil
		}
	}
	return nil, apperrors.ErrBookingNotFound
}

type fakeLessonStore struct {
	lesson *models.Lesson
	err    error
}

func (f *fakeLessonStore) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lesson, nil
}

func (f *fakeLessonStore) GetLessonForUpdate(ctx context.Context, q repositories.Querier, id int64) (*models.Lesson, error) {
	return f.GetLessonByID(ctx, id)
}

type fakeLessonRepo struct {
	byID           map[int64]*models.Lesson
	nextID         int64
	overlap        bool
	activeBookings bool

	updated       []*models.Lesson
	statusUpdates map[int64]models.LessonStatus
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{
		byID:          map[int64]*models.Lesson{},
		nextID:        1,
		statusUpdates: map[int64]models.LessonStatus{},
	}
}

func (f *fakeLessonRepo) CreateLesson(ctx context.Context, lesson *models.Lesson) (int64, error) {
	id := f.nextID
	f.nextID++
	lesson.ID = id
	f.byID[id] = lesson
	return id, nil
}

func (f *fakeLessonRepo) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	return lesson, nil
}

func (f *fakeLessonRepo) ListLessons(ctx context.Context, filter *dto.LessonFilter, offset, limit int) ([]*models.Lesson, int64, error) {
	var out []*models.Lesson
	for _, l := range f.byID {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLessonRepo) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	f.updated = append(f.updated, lesson)
	f.byID[lesson.ID] = lesson
	return nil
}

func (f *fakeLessonRepo) UpdateStatus(ctx context.Context, q repositories.Querier, id int64, status models.LessonStatus) error {
	f.statusUpdates[id] = status
	if l, ok := f.byID[id]; ok {
		l.Status = status
	}
	return nil
}

func (f *fakeLessonRepo) HasOverlappingLesson(ctx context.Context, instructorID int64, startsAt, endsAt time.Time, excludeLessonID int64) (bool, error) {
	return f.overlap, nil
}

func (f *fakeLessonRepo) HasActiveBookings(ctx context.Context, lessonID int64) (bool, error) {
	return f.activeBookings, nil
}

func (f *fakeLessonRepo) CompleteFinishedLessons(ctx context.Context) (int64, error) {
	var completed int64
	for _, l := range f.byID {
		if l.Status == models.LessonScheduled && l.EndsAt.Before(time.Now()) {
			l.Status = models.LessonCompleted
			completed++
		}
	}
	return completed, nil
}

type fakeLocationStore struct {
	missing bool
}

func (f *fakeLocationStore) GetLocationByID(ctx context.Context, id int64) (*models.Location, error) {
	if f.missing {
		return nil, apperrors.ErrLocationNotFound
	}
	return &models.Location{ID: id, Name: "South Mission Beach"}, nil
}

type fakeInstructorStore struct {
	profile *models.InstructorProfile
}

func (f *fakeInstructorStore) GetProfileByUserID(ctx context.Context, userID int64) (*models.InstructorProfile, error) {
	if f.profile == nil || f.profile.UserID != userID {
		return nil, apperrors.ErrInstructorNotFound
	}
	return f.profile, nil
}

type fakePaymentStore struct {
	created        []*models.Payment
	statusByIntent map[string]models.PaymentStatus
	updateErr      error
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{statusByIntent: map[string]models.PaymentStatus{}}
}

func (f *fakePaymentStore) CreatePayment(ctx context.Context, q repositories.Querier, payment *models.Payment) (int64, error) {
	f.created = append(f.created, payment)
	return int64(len(f.created)), nil
}

func (f *fakePaymentStore) UpdateStatusByIntentID(ctx context.Context, q repositories.Querier, intentID string, status models.PaymentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusByIntent[intentID] = status
	return nil
}

type fakeProvider struct {
	intent    *payments.Intent
	createErr error
	refundErr error
	event     *payments.WebhookEvent
	verifyErr error

	createdAmounts []int64
	cancelled      []string
	refunded       []string
}

func (f *fakeProvider) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdAmounts = append(f.createdAmounts, amountCents)
	if f.intent != nil {
		return f.intent, nil
	}
	return &payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (f *fakeProvider) CancelIntent(ctx context.Context, intentID string) error {
	f.cancelled = append(f.cancelled, intentID)
	return nil
}

func (f *fakeProvider) Refund(ctx context.Context, intentID string) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunded = append(f.refunded, intentID)
	return nil
}

func (f *fakeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*payments.WebhookEvent, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.event, nil
}

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

type sentMail struct {
	to     string
	lesson string
}

type fakeEmailService struct {
	confirmations []sentMail
	cancellations []sentMail
}

func (f *fakeEmailService) SendVerificationEmail(toEmail, toName, token string) error { return nil }
func (f *fakeEmailService) SendPasswordResetEmail(toEmail, toName, token string) error { return nil }

func (f *fakeEmailService) SendBookingConfirmationEmail(toEmail, toName, lessonTitle string, startsAt time.Time, locationName string) error {
	f.confirmations = append(f.confirmations, sentMail{to: toEmail, lesson: lessonTitle})
	return nil
}

func (f *fakeEmailService) SendBookingCancellationEmail(toEmail, toName, lessonTitle string, refunded bool) error {
	f.cancellations = append(f.cancellations, sentMail{to: toEmail, lesson: lessonTitle})
	return nil
}
