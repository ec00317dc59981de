package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/payments"
)

func newPaymentService(bookings *fakeBookingStore, pays *fakePaymentStore, provider *fakeProvider, mail *fakeEmailService) *PaymentService {
	return &PaymentService{
		tx:           &fakeTx{},
		bookings:     bookings,
		payments:     pays,
		users:        &fakeUserStore{users: map[int64]*models.User{7: {ID: 7, Email: "player@example.com", FirstName: "Mia"}}},
		provider:     provider,
		emailService: mail,
	}
}

func pendingBookingWithIntent(bookings *fakeBookingStore, intentID string) *models.Booking {
	starts := time.Now().Add(48 * time.Hour)
	booking := &models.Booking{
		ID:              1,
		LessonID:        10,
		PlayerID:        7,
		Status:          models.BookingPending,
		PaymentIntentID: &intentID,
		Lesson: &models.Lesson{
			ID:       10,
			Title:    "Serve receive fundamentals",
			StartsAt: starts,
			Location: &models.Location{Name: "South Mission Beach"},
		},
	}
	bookings.byID[booking.ID] = booking
	bookings.byIntent[intentID] = booking
	return booking
}

func TestHandleWebhookPaymentSucceeded(t *testing.T) {
	bookings := newFakeBookingStore()
	pendingBookingWithIntent(bookings, "pi_ok")
	pays := newFakePaymentStore()
	mail := &fakeEmailService{}
	provider := &fakeProvider{event: &payments.WebhookEvent{Type: payments.EventPaymentSucceeded, IntentID: "pi_ok"}}
	svc := newPaymentService(bookings, pays, provider, mail)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Equal(t, models.BookingConfirmed, bookings.statusUpdates[1])
	assert.Equal(t, models.PaymentSucceeded, pays.statusByIntent["pi_ok"])
	require.Len(t, mail.confirmations, 1)
	assert.Equal(t, "player@example.com", mail.confirmations[0].to)
	assert.Equal(t, "Serve receive fundamentals", mail.confirmations[0].lesson)
}

func TestHandleWebhookPaymentFailed(t *testing.T) {
	bookings := newFakeBookingStore()
	pendingBookingWithIntent(bookings, "pi_fail")
	pays := newFakePaymentStore()
	mail := &fakeEmailService{}
	provider := &fakeProvider{event: &payments.WebhookEvent{Type: payments.EventPaymentFailed, IntentID: "pi_fail"}}
	svc := newPaymentService(bookings, pays, provider, mail)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, bookings.statusUpdates[1])
	assert.Equal(t, models.PaymentFailed, pays.statusByIntent["pi_fail"])
	assert.Empty(t, mail.confirmations)
}

func TestHandleWebhookUnknownIntentAcked(t *testing.T) {
	// Events for intents we never issued are acknowledged so the provider
	// stops redelivering them.
	provider := &fakeProvider{event: &payments.WebhookEvent{Type: payments.EventPaymentSucceeded, IntentID: "pi_unknown"}}
	svc := newPaymentService(newFakeBookingStore(), newFakePaymentStore(), provider, &fakeEmailService{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
}

func TestHandleWebhookDuplicateDeliveryIsIdempotent(t *testing.T) {
	bookings := newFakeBookingStore()
	booking := pendingBookingWithIntent(bookings, "pi_dup")
	booking.Status = models.BookingConfirmed
	pays := newFakePaymentStore()
	mail := &fakeEmailService{}
	provider := &fakeProvider{event: &payments.WebhookEvent{Type: payments.EventPaymentSucceeded, IntentID: "pi_dup"}}
	svc := newPaymentService(bookings, pays, provider, mail)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Empty(t, bookings.statusUpdates)
	assert.Empty(t, pays.statusByIntent)
	assert.Empty(t, mail.confirmations)
}

func TestHandleWebhookBadSignature(t *testing.T) {
	provider := &fakeProvider{verifyErr: apperrors.ErrWebhookSignatureInvalid}
	svc := newPaymentService(newFakeBookingStore(), newFakePaymentStore(), provider, &fakeEmailService{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad")
	assert.ErrorIs(t, err, apperrors.ErrWebhookSignatureInvalid)
}

func TestHandleWebhookIgnoresUnrelatedEvents(t *testing.T) {
	bookings := newFakeBookingStore()
	pendingBookingWithIntent(bookings, "pi_other")
	provider := &fakeProvider{event: &payments.WebhookEvent{Type: "charge.updated", IntentID: "pi_other"}}
	svc := newPaymentService(bookings, newFakePaymentStore(), provider, &fakeEmailService{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Empty(t, bookings.statusUpdates)
}
