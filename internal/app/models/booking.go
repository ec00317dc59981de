package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking defines a player's reservation for a lesson based on the 'bookings' table
type Booking struct {
	ID              int64           `json:"id" db:"id" example:"1"`                              // Unique identifier for the booking
	LessonID        int64           `json:"lessonId" db:"lesson_id" example:"7"`                 // Booked lesson
	PlayerID        int64           `json:"playerId" db:"player_id" example:"12"`                // Booking user
	Status          BookingStatus   `json:"status" db:"status" example:"CONFIRMED"`              // Lifecycle state
	PaymentIntentID *string         `json:"paymentIntentId,omitempty" db:"payment_intent_id"`    // Provider payment intent (nullable until created)
	Amount          decimal.Decimal `json:"amount" db:"amount" example:"45.00"`                  // Amount charged for the spot
	Currency        string          `json:"currency" db:"currency" example:"usd"`                // ISO currency code
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Lesson *Lesson `json:"lesson,omitempty"`
	Player *User   `json:"player,omitempty"`
}

// Active reports whether the booking still holds a spot in the lesson.
func (b *Booking) Active() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
