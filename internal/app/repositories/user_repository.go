package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/dberrors"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user and returns its ID. It runs on the given
// Querier so instructor registration can also create the profile row in the
// same transaction.
func (r *UserRepository) CreateUser(ctx context.Context, q Querier, user *models.User) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, phone, role_type, is_active, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		user.Email, user.Password, user.FirstName, user.LastName, user.Phone,
		user.RoleType, user.IsActive, user.EmailVerified).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

const userColumns = `id, email, password, first_name, last_name, phone, role_type,
	is_active, email_verified, last_login_at, profile_photo_file_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.Phone, &user.RoleType, &user.IsActive, &user.EmailVerified,
		&user.LastLoginAt, &user.ProfilePhotoFileID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}

	return exists, nil
}

// UpdateProfile updates a user's basic profile information
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string, phone *string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, updated_at = NOW()
		WHERE id = $4`,
		firstName, lastName, phone, userID)

	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users
		SET password = $1, updated_at = NOW()
		WHERE id = $2`,
		hashedPassword, userID)

	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET last_login_at = $1
		WHERE id = $2`,
		time.Now(), userID)

	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}

	return nil
}

// MarkEmailVerified flags the user's email address as verified
func (r *UserRepository) MarkEmailVerified(ctx context.Context, userID int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users
		SET email_verified = true, updated_at = NOW()
		WHERE id = $1`,
		userID)

	if err != nil {
		return fmt.Errorf("error marking email verified: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// IsEmailVerified reports whether the user's email has been verified
func (r *UserRepository) IsEmailVerified(ctx context.Context, userID int64) (bool, error) {
	var verified bool
	err := r.db.QueryRow(ctx, `
		SELECT email_verified FROM users WHERE id = $1`,
		userID).Scan(&verified)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("error checking email verification: %w", err)
	}

	return verified, nil
}

// UpdateProfilePhotoFileID updates the avatar file ID for a given user
func (r *UserRepository) UpdateProfilePhotoFileID(ctx context.Context, userID int64, fileID *int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users
		SET profile_photo_file_id = $1, updated_at = NOW()
		WHERE id = $2`,
		fileID, userID)

	if err != nil {
		return fmt.Errorf("error updating profile photo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
