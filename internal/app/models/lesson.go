package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lesson defines a scheduled lesson based on the 'lessons' table
type Lesson struct {
	ID           int64           `json:"id" db:"id" example:"1"`                                    // Unique identifier for the lesson
	InstructorID int64           `json:"instructorId" db:"instructor_id" example:"3"`               // Instructor profile that teaches the lesson
	LocationID   int64           `json:"locationId" db:"location_id" example:"2"`                   // Beach location where the lesson takes place
	Title        string          `json:"title" db:"title" example:"Serve receive fundamentals"`     // Short title shown in listings
	Description  *string         `json:"description,omitempty" db:"description"`                    // Longer description (nullable)
	SkillLevel   SkillLevel      `json:"skillLevel" db:"skill_level" example:"BEGINNER"`            // Target skill level
	Capacity     int             `json:"capacity" db:"capacity" example:"8"`                        // Maximum number of players
	Price        decimal.Decimal `json:"price" db:"price" example:"45.00"`                          // Price per spot
	Currency     string          `json:"currency" db:"currency" example:"usd"`                      // ISO currency code (lowercase, Stripe style)
	StartsAt     time.Time       `json:"startsAt" db:"starts_at" example:"2025-07-10T17:00:00Z"`    // Lesson start time (UTC)
	EndsAt       time.Time       `json:"endsAt" db:"ends_at" example:"2025-07-10T18:30:00Z"`        // Lesson end time (UTC)
	Status       LessonStatus    `json:"status" db:"status" example:"SCHEDULED"`                    // Lifecycle state
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Instructor *InstructorProfile `json:"instructor,omitempty"`
	Location   *Location          `json:"location,omitempty"`

	// BookedCount is the number of non-cancelled bookings (populated by queries)
	BookedCount int `json:"bookedCount" example:"5"`
}

// RemainingSpots returns how many spots are still open.
func (l *Lesson) RemainingSpots() int {
	remaining := l.Capacity - l.BookedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PriceCents converts the decimal price to integer cents for the payment provider.
func (l *Lesson) PriceCents() int64 {
	return l.Price.Mul(decimal.NewFromInt(100)).IntPart()
}
