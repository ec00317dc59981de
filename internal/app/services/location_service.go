package services

import (
	"context"
	"mime/multipart"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/filestorage"
	"github.com/mkaraca/sideout/internal/pkg/logger"
)

// LocationService handles beach location management
type LocationService struct {
	locationRepo *repositories.LocationRepository
	fileRepo     *repositories.FileRepository
	storage      filestorage.FileStorage
}

// NewLocationService creates a new LocationService
func NewLocationService(locationRepo *repositories.LocationRepository, fileRepo *repositories.FileRepository, storage filestorage.FileStorage) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		fileRepo:     fileRepo,
		storage:      storage,
	}
}

// CreateLocation creates a new location
func (s *LocationService) CreateLocation(ctx context.Context, req *dto.CreateLocationRequest) (*models.Location, error) {
	loc := &models.Location{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CourtCount:  req.CourtCount,
		Description: req.Description,
	}

	id, err := s.locationRepo.CreateLocation(ctx, loc)
	if err != nil {
		return nil, err
	}

	return s.locationRepo.GetLocationByID(ctx, id)
}

// GetLocation retrieves a location with its photos
func (s *LocationService) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	loc, err := s.locationRepo.GetLocationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photos, err := s.locationRepo.GetPhotos(ctx, id)
	if err != nil {
		logger.Warn().Err(err).Int64("locationID", id).Msg("Failed to load location photos")
	} else {
		loc.Photos = photos
	}

	return loc, nil
}

// ListLocations retrieves locations, optionally filtered by city
func (s *LocationService) ListLocations(ctx context.Context, city string, offset, limit int) ([]*models.Location, int64, error) {
	return s.locationRepo.ListLocations(ctx, city, offset, limit)
}

// UpdateLocation updates an existing location
func (s *LocationService) UpdateLocation(ctx context.Context, id int64, req *dto.UpdateLocationRequest) (*models.Location, error) {
	loc := &models.Location{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CourtCount:  req.CourtCount,
		Description: req.Description,
	}

	if err := s.locationRepo.UpdateLocation(ctx, loc); err != nil {
		return nil, err
	}

	return s.GetLocation(ctx, id)
}

// DeleteLocation removes a location without lessons
func (s *LocationService) DeleteLocation(ctx context.Context, id int64) error {
	return s.locationRepo.DeleteLocation(ctx, id)
}

// AddPhoto uploads a photo and links it to a location
func (s *LocationService) AddPhoto(ctx context.Context, locationID, uploadedBy int64, fileHeader *multipart.FileHeader) (*models.Location, error) {
	if _, err := s.locationRepo.GetLocationByID(ctx, locationID); err != nil {
		return nil, err
	}

	fileURL, err := s.storage.SaveFileWithPath(fileHeader, "locations")
	if err != nil {
		return nil, err
	}

	file := &models.File{
		FileName:     fileHeader.Filename,
		FilePath:     s.storage.GetFullPath(fileURL),
		FileURL:      fileURL,
		FileSize:     fileHeader.Size,
		FileType:     fileHeader.Header.Get("Content-Type"),
		ResourceType: models.FileTypeLocationPhoto,
		ResourceID:   locationID,
		UploadedBy:   uploadedBy,
	}

	stored, err := s.fileRepo.CreateFile(ctx, file)
	if err != nil {
		_ = s.storage.DeleteFile(fileURL)
		return nil, err
	}

	if err := s.locationRepo.AddPhoto(ctx, locationID, stored.ID); err != nil {
		return nil, err
	}

	return s.GetLocation(ctx, locationID)
}

// RemovePhoto unlinks a photo from a location and deletes the stored file
func (s *LocationService) RemovePhoto(ctx context.Context, locationID, fileID int64) error {
	if err := s.locationRepo.RemovePhoto(ctx, locationID, fileID); err != nil {
		return err
	}

	if file, err := s.fileRepo.GetFileByID(ctx, fileID); err == nil {
		_ = s.storage.DeleteFile(file.FileURL)
		_ = s.fileRepo.DeleteFile(ctx, file.ID)
	}

	return nil
}
