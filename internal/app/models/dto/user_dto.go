package dto

import "github.com/mkaraca/sideout/internal/app/models"

// UserResponse represents basic user information
type UserResponse struct {
	ID              int64   `json:"id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Phone           *string `json:"phone,omitempty"`
	RoleType        string  `json:"roleType"`
	EmailVerified   bool    `json:"emailVerified"`
	ProfilePhotoURL string  `json:"profilePhotoUrl,omitempty"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
}

// FromUser converts a user model to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Phone:         user.Phone,
		RoleType:      string(user.RoleType),
		EmailVerified: user.EmailVerified,
	}

	if user.ProfilePhoto != nil {
		resp.ProfilePhotoURL = user.ProfilePhoto.FileURL
	}

	return resp
}
