package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

// StripeProvider implements Provider on top of the Stripe SDK.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	logger        zerolog.Logger
}

// NewStripeProvider creates a Stripe-backed payment provider.
func NewStripeProvider(secretKey, webhookSecret string, logger zerolog.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateIntent creates a Stripe payment intent.
func (p *StripeProvider) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		p.logger.Error().Err(err).Int64("amountCents", amountCents).Str("currency", currency).Msg("Failed to create payment intent")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentProviderFailure, err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// CancelIntent cancels an uncaptured Stripe payment intent.
func (p *StripeProvider) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := p.api.PaymentIntents.Cancel(intentID, params); err != nil {
		p.logger.Error().Err(err).Str("intentID", intentID).Msg("Failed to cancel payment intent")
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentProviderFailure, err)
	}
	return nil
}

// Refund refunds a captured Stripe payment intent in full.
func (p *StripeProvider) Refund(ctx context.Context, intentID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx

	if _, err := p.api.Refunds.New(params); err != nil {
		p.logger.Error().Err(err).Str("intentID", intentID).Msg("Failed to refund payment intent")
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentProviderFailure, err)
	}
	return nil
}

// VerifyWebhook verifies the Stripe signature header and decodes the event.
func (p *StripeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrWebhookSignatureInvalid, err)
	}

	decoded := &WebhookEvent{Type: string(event.Type)}

	switch decoded.Type {
	case EventPaymentSucceeded, EventPaymentFailed, EventPaymentCanceled:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent from webhook: %w", err)
		}
		decoded.IntentID = pi.ID
	}

	return decoded, nil
}
