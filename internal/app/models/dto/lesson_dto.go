package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkaraca/sideout/internal/app/models"
)

// CreateLessonRequest schedules a new lesson for the calling instructor
type CreateLessonRequest struct {
	LocationID  int64           `json:"locationId" binding:"required,min=1"`
	Title       string          `json:"title" binding:"required"`
	Description *string         `json:"description,omitempty"`
	SkillLevel  string          `json:"skillLevel" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED ALL"`
	Capacity    int             `json:"capacity" binding:"required,min=1,max=20"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	StartsAt    time.Time       `json:"startsAt" binding:"required"`
	EndsAt      time.Time       `json:"endsAt" binding:"required"`
}

// UpdateLessonRequest updates an existing lesson
type UpdateLessonRequest struct {
	LocationID  int64           `json:"locationId" binding:"required,min=1"`
	Title       string          `json:"title" binding:"required"`
	Description *string         `json:"description,omitempty"`
	SkillLevel  string          `json:"skillLevel" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED ALL"`
	Capacity    int             `json:"capacity" binding:"required,min=1,max=20"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	StartsAt    time.Time       `json:"startsAt" binding:"required"`
	EndsAt      time.Time       `json:"endsAt" binding:"required"`
}

// LessonResponse represents a lesson in API responses
type LessonResponse struct {
	ID             int64           `json:"id"`
	InstructorID   int64           `json:"instructorId"`
	InstructorName string          `json:"instructorName,omitempty"`
	LocationID     int64           `json:"locationId"`
	LocationName   string          `json:"locationName,omitempty"`
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	SkillLevel     string          `json:"skillLevel"`
	Capacity       int             `json:"capacity"`
	RemainingSpots int             `json:"remainingSpots"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	StartsAt       time.Time       `json:"startsAt"`
	EndsAt         time.Time       `json:"endsAt"`
	Status         string          `json:"status"`
}

// LessonListResponse is the paginated lesson listing
type LessonListResponse struct {
	Lessons    []LessonResponse `json:"lessons"`
	Pagination PaginationInfo   `json:"pagination"`
}

// LessonFilter carries the supported lesson listing filters
type LessonFilter struct {
	From          *time.Time
	To            *time.Time
	LocationID    int64
	InstructorID  int64
	SkillLevel    string
	OnlyAvailable bool
}

// FromLesson converts a lesson model to a response DTO
func FromLesson(l *models.Lesson) LessonResponse {
	if l == nil {
		return LessonResponse{}
	}

	resp := LessonResponse{
		ID:             l.ID,
		InstructorID:   l.InstructorID,
		LocationID:     l.LocationID,
		Title:          l.Title,
		Description:    l.Description,
		SkillLevel:     string(l.SkillLevel),
		Capacity:       l.Capacity,
		RemainingSpots: l.RemainingSpots(),
		Price:          l.Price,
		Currency:       l.Currency,
		StartsAt:       l.StartsAt,
		EndsAt:         l.EndsAt,
		Status:         string(l.Status),
	}

	if l.Instructor != nil && l.Instructor.User != nil {
		resp.InstructorName = l.Instructor.User.FullName()
	}
	if l.Location != nil {
		resp.LocationName = l.Location.Name
	}

	return resp
}
