package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkaraca/sideout/internal/app/models"
)

// CreateBookingRequest books a spot in a lesson for the calling player
type CreateBookingRequest struct {
	LessonID int64 `json:"lessonId" binding:"required,min=1"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID              int64           `json:"id"`
	LessonID        int64           `json:"lessonId"`
	LessonTitle     string          `json:"lessonTitle,omitempty"`
	LessonStartsAt  *time.Time      `json:"lessonStartsAt,omitempty"`
	PlayerID        int64           `json:"playerId"`
	PlayerName      string          `json:"playerName,omitempty"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	PaymentIntentID *string         `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CreateBookingResponse is returned when a booking is created; the client
// completes the charge with the provider using the client secret.
type CreateBookingResponse struct {
	Booking      BookingResponse `json:"booking"`
	ClientSecret string          `json:"clientSecret"`
}

// BookingListResponse is the paginated booking listing
type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination PaginationInfo    `json:"pagination"`
}

// FromBooking converts a booking model to a response DTO
func FromBooking(b *models.Booking) BookingResponse {
	if b == nil {
		return BookingResponse{}
	}

	resp := BookingResponse{
		ID:              b.ID,
		LessonID:        b.LessonID,
		PlayerID:        b.PlayerID,
		Status:          string(b.Status),
		Amount:          b.Amount,
		Currency:        b.Currency,
		PaymentIntentID: b.PaymentIntentID,
		CreatedAt:       b.CreatedAt,
	}

	if b.Lesson != nil {
		resp.LessonTitle = b.Lesson.Title
		startsAt := b.Lesson.StartsAt
		resp.LessonStartsAt = &startsAt
	}
	if b.Player != nil {
		resp.PlayerName = b.Player.FullName()
	}

	return resp
}
