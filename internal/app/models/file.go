package models

import "time"

// FileType represents what a stored file is attached to
type FileType string

const (
	FileTypeProfilePhoto  FileType = "PROFILE_PHOTO"
	FileTypeLocationPhoto FileType = "LOCATION_PHOTO"
)

// File represents a stored file in the system
type File struct {
	ID           int64     `json:"id" db:"id"`
	FileName     string    `json:"fileName" db:"file_name"`
	FilePath     string    `json:"filePath" db:"file_path"`
	FileURL      string    `json:"fileUrl" db:"file_url"`
	FileSize     int64     `json:"fileSize" db:"file_size"`
	FileType     string    `json:"fileType" db:"file_type"` // MIME type
	ResourceType FileType  `json:"resourceType" db:"resource_type"`
	ResourceID   int64     `json:"resourceId" db:"resource_id"`
	UploadedBy   int64     `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// LocationPhoto represents the association between locations and photo files
type LocationPhoto struct {
	ID         int64     `json:"id" db:"id"`
	LocationID int64     `json:"locationId" db:"location_id"`
	FileID     int64     `json:"fileId" db:"file_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
