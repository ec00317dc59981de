package services

import (
	"context"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/repositories"
)

// upcomingLessonsLimit caps the lessons shown on the instructor detail page
const upcomingLessonsLimit = 10

// InstructorService handles instructor discovery and profile management
type InstructorService struct {
	instructorRepo *repositories.InstructorRepository
	lessonRepo     *repositories.LessonRepository
}

// NewInstructorService creates a new InstructorService
func NewInstructorService(instructorRepo *repositories.InstructorRepository, lessonRepo *repositories.LessonRepository) *InstructorService {
	return &InstructorService{
		instructorRepo: instructorRepo,
		lessonRepo:     lessonRepo,
	}
}

// ListInstructors retrieves instructors matching the filter
func (s *InstructorService) ListInstructors(ctx context.Context, filter *dto.InstructorFilter, offset, limit int) ([]*models.InstructorProfile, int64, error) {
	return s.instructorRepo.ListInstructors(ctx, filter, offset, limit)
}

// GetInstructorDetail retrieves an instructor profile with upcoming lessons
func (s *InstructorService) GetInstructorDetail(ctx context.Context, instructorID int64) (*models.InstructorProfile, []*models.Lesson, error) {
	profile, err := s.instructorRepo.GetProfileByID(ctx, instructorID)
	if err != nil {
		return nil, nil, err
	}

	lessons, err := s.lessonRepo.ListUpcomingByInstructor(ctx, instructorID, upcomingLessonsLimit)
	if err != nil {
		return nil, nil, err
	}

	return profile, lessons, nil
}

// GetProfileByUserID retrieves the instructor profile owned by a user
func (s *InstructorService) GetProfileByUserID(ctx context.Context, userID int64) (*models.InstructorProfile, error) {
	return s.instructorRepo.GetProfileByUserID(ctx, userID)
}

// UpdateOwnProfile updates the calling instructor's profile
func (s *InstructorService) UpdateOwnProfile(ctx context.Context, userID int64, req *dto.UpdateInstructorProfileRequest) (*models.InstructorProfile, error) {
	profile, err := s.instructorRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.instructorRepo.UpdateProfile(ctx, profile.ID, req.Bio, req.Certifications, req.YearsExperience); err != nil {
		return nil, err
	}

	return s.instructorRepo.GetProfileByID(ctx, profile.ID)
}
