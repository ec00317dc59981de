package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records the provider-side payment intent for a booking based on
// the 'payments' table. The intent itself is owned by the payment provider;
// this row only mirrors the states we care about.
type Payment struct {
	ID               int64           `json:"id" db:"id" example:"1"`
	BookingID        int64           `json:"bookingId" db:"booking_id" example:"4"`
	ProviderIntentID string          `json:"providerIntentId" db:"provider_intent_id" example:"pi_3MtwBwLkdIwHu7ix28a3tqPa"`
	Status           PaymentStatus   `json:"status" db:"status" example:"SUCCEEDED"`
	Amount           decimal.Decimal `json:"amount" db:"amount" example:"45.00"`
	Currency         string          `json:"currency" db:"currency" example:"usd"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}
