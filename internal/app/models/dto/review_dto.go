package dto

import (
	"time"

	"github.com/mkaraca/sideout/internal/app/models"
)

// CreateReviewRequest leaves a review for a completed lesson
type CreateReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID         int64     `json:"id"`
	LessonID   int64     `json:"lessonId"`
	PlayerID   int64     `json:"playerId"`
	PlayerName string    `json:"playerName,omitempty"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewListResponse is the paginated review listing
type ReviewListResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination PaginationInfo   `json:"pagination"`
}

// FromReview converts a review model to a response DTO
func FromReview(r *models.Review) ReviewResponse {
	if r == nil {
		return ReviewResponse{}
	}

	resp := ReviewResponse{
		ID:        r.ID,
		LessonID:  r.LessonID,
		PlayerID:  r.PlayerID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}

	if r.Player != nil {
		resp.PlayerName = r.Player.FullName()
	}

	return resp
}
