package services

import (
	"context"
	"mime/multipart"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/filestorage"
	"github.com/mkaraca/sideout/internal/pkg/logger"
)

// UserService handles user profile operations
type UserService struct {
	userRepo *repositories.UserRepository
	fileRepo *repositories.FileRepository
	storage  filestorage.FileStorage
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, fileRepo *repositories.FileRepository, storage filestorage.FileStorage) *UserService {
	return &UserService{
		userRepo: userRepo,
		fileRepo: fileRepo,
		storage:  storage,
	}
}

// GetProfile retrieves a user with the profile photo relation populated
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.ProfilePhotoFileID != nil {
		photo, err := s.fileRepo.GetFileByID(ctx, *user.ProfilePhotoFileID)
		if err != nil {
			logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to load profile photo")
		} else {
			user.ProfilePhoto = photo
		}
	}

	return user, nil
}

// UpdateProfile updates the user's basic profile information
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string, phone *string) (*models.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, firstName, lastName, phone); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// UpdateProfilePhoto stores a new avatar and replaces the previous one
func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fileURL, err := s.storage.SaveFileWithPath(fileHeader, "avatars")
	if err != nil {
		return nil, err
	}

	file := &models.File{
		FileName:     fileHeader.Filename,
		FilePath:     s.storage.GetFullPath(fileURL),
		FileURL:      fileURL,
		FileSize:     fileHeader.Size,
		FileType:     fileHeader.Header.Get("Content-Type"),
		ResourceType: models.FileTypeProfilePhoto,
		ResourceID:   userID,
		UploadedBy:   userID,
	}

	stored, err := s.fileRepo.CreateFile(ctx, file)
	if err != nil {
		_ = s.storage.DeleteFile(fileURL)
		return nil, err
	}

	if err := s.userRepo.UpdateProfilePhotoFileID(ctx, userID, &stored.ID); err != nil {
		return nil, err
	}

	// Best-effort removal of the previous avatar
	if user.ProfilePhotoFileID != nil {
		if old, err := s.fileRepo.GetFileByID(ctx, *user.ProfilePhotoFileID); err == nil {
			_ = s.storage.DeleteFile(old.FileURL)
			_ = s.fileRepo.DeleteFile(ctx, old.ID)
		}
	}

	return s.GetProfile(ctx, userID)
}

// RemoveProfilePhoto clears the user's avatar and deletes the stored file
func (s *UserService) RemoveProfilePhoto(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.ProfilePhotoFileID == nil {
		return user, nil
	}

	if err := s.userRepo.UpdateProfilePhotoFileID(ctx, userID, nil); err != nil {
		return nil, err
	}

	if old, err := s.fileRepo.GetFileByID(ctx, *user.ProfilePhotoFileID); err == nil {
		_ = s.storage.DeleteFile(old.FileURL)
		_ = s.fileRepo.DeleteFile(ctx, old.ID)
	}

	return s.GetProfile(ctx, userID)
}
