package models

import "time"

// Review defines a lesson review based on the 'reviews' table.
// A review is tied to a booking, so a player can review a lesson at most once.
type Review struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	BookingID int64     `json:"bookingId" db:"booking_id" example:"4"`
	LessonID  int64     `json:"lessonId" db:"lesson_id" example:"7"`
	PlayerID  int64     `json:"playerId" db:"player_id" example:"12"`
	Rating    int       `json:"rating" db:"rating" example:"5"`        // 1 to 5
	Comment   *string   `json:"comment,omitempty" db:"comment"`        // Optional free text
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Player *User `json:"player,omitempty"`
}
