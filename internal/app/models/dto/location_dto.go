package dto

import "github.com/mkaraca/sideout/internal/app/models"

// CreateLocationRequest creates a new beach location
type CreateLocationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Latitude    float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	CourtCount  int     `json:"courtCount" binding:"required,min=1"`
	Description *string `json:"description,omitempty"`
}

// UpdateLocationRequest updates an existing location
type UpdateLocationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Latitude    float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	CourtCount  int     `json:"courtCount" binding:"required,min=1"`
	Description *string `json:"description,omitempty"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	CourtCount  int        `json:"courtCount"`
	Description *string    `json:"description,omitempty"`
	PhotoURLs   []string   `json:"photoUrls"`
}

// LocationListResponse is the paginated location listing
type LocationListResponse struct {
	Locations  []LocationResponse `json:"locations"`
	Pagination PaginationInfo     `json:"pagination"`
}

// FromLocation converts a location model to a response DTO
func FromLocation(l *models.Location) LocationResponse {
	if l == nil {
		return LocationResponse{}
	}

	resp := LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Address:     l.Address,
		City:        l.City,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		CourtCount:  l.CourtCount,
		Description: l.Description,
		PhotoURLs:   make([]string, 0, len(l.Photos)),
	}

	for _, photo := range l.Photos {
		resp.PhotoURLs = append(resp.PhotoURLs, photo.FileURL)
	}

	return resp
}
