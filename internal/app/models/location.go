package models

import "time"

// Location defines a beach location based on the 'locations' table
type Location struct {
	ID          int64     `json:"id" db:"id" example:"1"`                                      // Unique identifier for the location
	Name        string    `json:"name" db:"name" example:"South Mission Beach"`                // Display name
	Address     string    `json:"address" db:"address" example:"700 Mission Blvd"`             // Street address
	City        string    `json:"city" db:"city" example:"San Diego"`                          // City
	Latitude    float64   `json:"latitude" db:"latitude" example:"32.7683"`                    // WGS84 latitude
	Longitude   float64   `json:"longitude" db:"longitude" example:"-117.2538"`                // WGS84 longitude
	CourtCount  int       `json:"courtCount" db:"court_count" example:"6"`                     // Number of courts available at this beach
	Description *string   `json:"description,omitempty" db:"description"`                      // Free-text description (nullable)
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Photos []*File `json:"photos,omitempty"`
}
