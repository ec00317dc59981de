package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                 int64      `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Email              string     `json:"email" db:"email" example:"player@example.com"`                           // User's email address
	Password           string     `json:"-" db:"password"`                                                         // User's hashed password (excluded from JSON)
	FirstName          string     `json:"firstName" db:"first_name" example:"Mia"`                                 // User's first name
	LastName           string     `json:"lastName" db:"last_name" example:"Santos"`                                // User's last name
	Phone              *string    `json:"phone,omitempty" db:"phone" example:"+15551234567"`                       // Contact phone number (nullable)
	RoleType           RoleType   `json:"roleType" db:"role_type" example:"PLAYER"`                                // User's role (PLAYER or INSTRUCTOR)
	IsActive           bool       `json:"isActive" db:"is_active" example:"true"`                                  // Whether the user account is active
	EmailVerified      bool       `json:"emailVerified" db:"email_verified" example:"true"`                        // Whether the email address has been verified
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2025-06-20T18:00:00Z"` // Timestamp of the last login (nullable)
	ProfilePhotoFileID *int64     `json:"profilePhotoFileId,omitempty" db:"profile_photo_file_id"`                 // File ID of the avatar (nullable)
	CreatedAt          time.Time  `json:"createdAt" db:"created_at" example:"2025-01-01T10:00:00Z"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at" example:"2025-01-02T15:30:00Z"`

	// Relations (populated when needed)
	ProfilePhoto *File `json:"profilePhoto,omitempty"`
}

// FullName returns the display name used in emails and listings.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
