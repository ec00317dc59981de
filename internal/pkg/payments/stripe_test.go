package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

const testWebhookSecret = "whsec_test"

// signPayload builds a Stripe-Signature header the way Stripe does: an HMAC
// SHA-256 of "<timestamp>.<payload>" keyed with the endpoint secret.
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookDecodesPaymentIntent(t *testing.T) {
	provider := NewStripeProvider("sk_test", testWebhookSecret, zerolog.Nop())

	payload := []byte(`{
		"id": "evt_1",
		"api_version": "2024-06-20",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "status": "succeeded"}}
	}`)

	event, err := provider.VerifyWebhook(payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.IntentID)
}

func TestVerifyWebhookUnhandledEventType(t *testing.T) {
	provider := NewStripeProvider("sk_test", testWebhookSecret, zerolog.Nop())

	payload := []byte(`{
		"id": "evt_2",
		"api_version": "2024-06-20",
		"type": "charge.updated",
		"data": {"object": {"id": "ch_1"}}
	}`)

	event, err := provider.VerifyWebhook(payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, "charge.updated", event.Type)
	assert.Empty(t, event.IntentID)
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	provider := NewStripeProvider("sk_test", testWebhookSecret, zerolog.Nop())

	payload := []byte(`{"id": "evt_3", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1"}}}`)

	_, err := provider.VerifyWebhook(payload, signPayload(payload, "whsec_wrong", time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrWebhookSignatureInvalid)
}

func TestVerifyWebhookRejectsStaleTimestamp(t *testing.T) {
	provider := NewStripeProvider("sk_test", testWebhookSecret, zerolog.Nop())

	payload := []byte(`{"id": "evt_4", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1"}}}`)
	stale := time.Now().Add(-time.Hour)

	_, err := provider.VerifyWebhook(payload, signPayload(payload, testWebhookSecret, stale))
	assert.ErrorIs(t, err, apperrors.ErrWebhookSignatureInvalid)
}
