package models

import "time"

// InstructorProfile defines the instructor model based on the 'instructor_profiles' table.
// Every instructor is a user with RoleInstructor plus this profile row.
type InstructorProfile struct {
	ID              int64     `json:"id" db:"id" example:"1"`                                         // Unique identifier for the instructor profile
	UserID          int64     `json:"userId" db:"user_id" example:"5"`                                // ID of the associated user account
	Bio             string    `json:"bio" db:"bio" example:"AVP tour veteran, 10 years coaching"`     // Public biography
	Certifications  *string   `json:"certifications,omitempty" db:"certifications"`                   // Certifications, free text (nullable)
	YearsExperience int       `json:"yearsExperience" db:"years_experience" example:"10"`             // Years of coaching experience
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`

	// Aggregates (populated by list/detail queries)
	AverageRating *float64 `json:"averageRating,omitempty" example:"4.7"` // Average review rating across the instructor's lessons
	ReviewCount   int      `json:"reviewCount" example:"23"`              // Number of reviews across the instructor's lessons
}
