// Package seed creates development fixtures so a fresh database is usable
// right away.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/mkaraca/sideout/internal/app/models"
	appRepos "github.com/mkaraca/sideout/internal/app/repositories"
)

const (
	seedInstructorEmail = "coach@sideout.dev"
	seedPlayerEmail     = "player@sideout.dev"
	seedPassword        = "Sideout123!"
)

// CreateDefaultData creates demo locations, an instructor and a player if
// they don't exist yet. Errors are collected so a partial seed doesn't stop
// the server from starting.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	instructorRepo := appRepos.NewInstructorRepository(dbPool)
	locationRepo := appRepos.NewLocationRepository(dbPool)
	lessonRepo := appRepos.NewLessonRepository(dbPool)

	lgr.Info().Msg("Checking/creating default data...")
	var finalErr error

	locationID, err := seedLocations(ctx, locationRepo)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding locations")
		finalErr = errors.Join(finalErr, err)
	}

	instructorID, err := seedInstructor(ctx, dbPool, userRepo, instructorRepo, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding instructor")
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedPlayer(ctx, dbPool, userRepo, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error seeding player")
		finalErr = errors.Join(finalErr, err)
	}

	if instructorID > 0 && locationID > 0 {
		if err := seedLesson(ctx, lessonRepo, instructorID, locationID); err != nil {
			lgr.Error().Err(err).Msg("Error seeding lesson")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func seedLocations(ctx context.Context, locationRepo *appRepos.LocationRepository) (int64, error) {
	existing, total, err := locationRepo.ListLocations(ctx, "", 0, 1)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		return existing[0].ID, nil
	}

	missionDesc := "Six permanent courts, nets provided"
	firstID, err := locationRepo.CreateLocation(ctx, &appModels.Location{
		Name:        "South Mission Beach",
		Address:     "700 Mission Blvd",
		City:        "San Diego",
		Latitude:    32.7683,
		Longitude:   -117.2538,
		CourtCount:  6,
		Description: &missionDesc,
	})
	if err != nil {
		return 0, err
	}

	_, err = locationRepo.CreateLocation(ctx, &appModels.Location{
		Name:       "Huntington City Beach",
		Address:    "103 Pacific Coast Hwy",
		City:       "Huntington Beach",
		Latitude:   33.6553,
		Longitude:  -118.0036,
		CourtCount: 8,
	})
	return firstID, err
}

func seedInstructor(ctx context.Context, dbPool *pgxpool.Pool, userRepo *appRepos.UserRepository, instructorRepo *appRepos.InstructorRepository, lgr zerolog.Logger) (int64, error) {
	exists, err := userRepo.EmailExists(ctx, seedInstructorEmail)
	if err != nil {
		return 0, err
	}
	if exists {
		profile, err := instructorRepo.GetProfileByUserID(ctx, mustUserID(ctx, userRepo, seedInstructorEmail))
		if err != nil {
			return 0, err
		}
		return profile.ID, nil
	}

	lgr.Info().Str("email", seedInstructorEmail).Msg("Creating default instructor")
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	userID, err := userRepo.CreateUser(ctx, dbPool, &appModels.User{
		Email:         seedInstructorEmail,
		Password:      string(hashed),
		FirstName:     "Alex",
		LastName:      "Reyes",
		RoleType:      appModels.RoleInstructor,
		IsActive:      true,
		EmailVerified: true,
	})
	if err != nil {
		return 0, err
	}

	certs := "CBVA certified"
	return instructorRepo.CreateProfile(ctx, dbPool, &appModels.InstructorProfile{
		UserID:          userID,
		Bio:             "AVP tour veteran, ten years of beach coaching",
		Certifications:  &certs,
		YearsExperience: 10,
	})
}

func seedPlayer(ctx context.Context, dbPool *pgxpool.Pool, userRepo *appRepos.UserRepository, lgr zerolog.Logger) error {
	exists, err := userRepo.EmailExists(ctx, seedPlayerEmail)
	if err != nil || exists {
		return err
	}

	lgr.Info().Str("email", seedPlayerEmail).Msg("Creating default player")
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = userRepo.CreateUser(ctx, dbPool, &appModels.User{
		Email:         seedPlayerEmail,
		Password:      string(hashed),
		FirstName:     "Mia",
		LastName:      "Santos",
		RoleType:      appModels.RolePlayer,
		IsActive:      true,
		EmailVerified: true,
	})
	return err
}

func seedLesson(ctx context.Context, lessonRepo *appRepos.LessonRepository, instructorID, locationID int64) error {
	upcoming, err := lessonRepo.ListUpcomingByInstructor(ctx, instructorID, 1)
	if err != nil || len(upcoming) > 0 {
		return err
	}

	starts := time.Now().Add(72 * time.Hour).Truncate(time.Hour)
	desc := "Footwork, platform control and serve receive drills"
	_, err = lessonRepo.CreateLesson(ctx, &appModels.Lesson{
		InstructorID: instructorID,
		LocationID:   locationID,
		Title:        "Serve receive fundamentals",
		Description:  &desc,
		SkillLevel:   appModels.SkillBeginner,
		Capacity:     8,
		Price:        decimal.NewFromInt(45),
		Currency:     "usd",
		StartsAt:     starts,
		EndsAt:       starts.Add(90 * time.Minute),
		Status:       appModels.LessonScheduled,
	})
	return err
}

func mustUserID(ctx context.Context, userRepo *appRepos.UserRepository, email string) int64 {
	user, err := userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return 0
	}
	return user.ID
}
