package payments

import "context"

// Webhook event types the application reacts to. Values follow the
// provider's event naming so webhook payloads map directly.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCanceled  = "payment_intent.canceled"
)

// Intent is the provider-agnostic view of a payment intent.
// The intent object itself is owned by the payment provider.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// WebhookEvent is a verified, decoded webhook notification.
type WebhookEvent struct {
	Type     string
	IntentID string
}

// Provider abstracts the payment processor so services depend on an
// interface rather than the SDK.
type Provider interface {
	// CreateIntent creates a payment intent for the given amount in minor
	// units (cents) and returns the client secret the frontend completes
	// the charge with.
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)

	// CancelIntent cancels an intent that has not been captured yet.
	CancelIntent(ctx context.Context, intentID string) error

	// Refund refunds a captured intent in full.
	Refund(ctx context.Context, intentID string) error

	// VerifyWebhook checks the signature of a raw webhook payload and
	// decodes it into a WebhookEvent.
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
