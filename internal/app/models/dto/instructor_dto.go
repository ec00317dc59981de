package dto

import "github.com/mkaraca/sideout/internal/app/models"

// InstructorResponse represents an instructor profile in API responses
type InstructorResponse struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"userId"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Bio             string   `json:"bio"`
	Certifications  *string  `json:"certifications,omitempty"`
	YearsExperience int      `json:"yearsExperience"`
	AverageRating   *float64 `json:"averageRating,omitempty"`
	ReviewCount     int      `json:"reviewCount"`
	ProfilePhotoURL string   `json:"profilePhotoUrl,omitempty"`
}

// InstructorListResponse is the paginated instructor listing
type InstructorListResponse struct {
	Instructors []InstructorResponse `json:"instructors"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// InstructorDetailResponse adds the instructor's upcoming lessons
type InstructorDetailResponse struct {
	InstructorResponse
	UpcomingLessons []LessonResponse `json:"upcomingLessons"`
}

// UpdateInstructorProfileRequest updates the caller's instructor profile
type UpdateInstructorProfileRequest struct {
	Bio             string  `json:"bio" binding:"required"`
	Certifications  *string `json:"certifications,omitempty"`
	YearsExperience int     `json:"yearsExperience" binding:"min=0"`
}

// InstructorFilter carries the supported listing filters
type InstructorFilter struct {
	City       string
	SkillLevel string
	MinRating  float64
}

// FromInstructor converts an instructor profile model to a response DTO
func FromInstructor(p *models.InstructorProfile) InstructorResponse {
	if p == nil {
		return InstructorResponse{}
	}

	resp := InstructorResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Bio:             p.Bio,
		Certifications:  p.Certifications,
		YearsExperience: p.YearsExperience,
		AverageRating:   p.AverageRating,
		ReviewCount:     p.ReviewCount,
	}

	if p.User != nil {
		resp.FirstName = p.User.FirstName
		resp.LastName = p.User.LastName
		if p.User.ProfilePhoto != nil {
			resp.ProfilePhotoURL = p.User.ProfilePhoto.FileURL
		}
	}

	return resp
}
