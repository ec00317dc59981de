package dto

import "github.com/mkaraca/sideout/internal/app/models"

// FileResponse represents file information in API responses
type FileResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// FromFile converts a file model to a response DTO
func FromFile(f *models.File) FileResponse {
	if f == nil {
		return FileResponse{}
	}

	return FileResponse{
		ID:       f.ID,
		FileName: f.FileName,
		FileURL:  f.FileURL,
		FileSize: f.FileSize,
		FileType: f.FileType,
	}
}
