package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/dberrors"
)

// InstructorRepository handles instructor profile database operations
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateProfile creates an instructor profile for a user. It runs on the given
// Querier so registration can create the user and profile in one transaction.
func (r *InstructorRepository) CreateProfile(ctx context.Context, q Querier, profile *models.InstructorProfile) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO instructor_profiles (user_id, bio, certifications, years_experience)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		profile.UserID, profile.Bio, profile.Certifications, profile.YearsExperience).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "instructor_profiles_user_id_key") {
			return 0, apperrors.ErrInstructorProfileExists
		}
		return 0, fmt.Errorf("error creating instructor profile: %w", err)
	}

	return id, nil
}

// instructorSelect joins the profile with its user account and aggregates
// review stats across all of the instructor's lessons.
const instructorSelect = `
	SELECT ip.id, ip.user_id, ip.bio, ip.certifications, ip.years_experience,
		ip.created_at, ip.updated_at,
		u.id, u.email, u.first_name, u.last_name, u.phone, u.role_type,
		u.is_active, u.email_verified, u.profile_photo_file_id, u.created_at, u.updated_at,
		AVG(rv.rating)::float8, COUNT(rv.id)
	FROM instructor_profiles ip
	JOIN users u ON u.id = ip.user_id
	LEFT JOIN lessons l ON l.instructor_id = ip.id
	LEFT JOIN reviews rv ON rv.lesson_id = l.id`

const instructorGroupBy = `
	GROUP BY ip.id, ip.user_id, ip.bio, ip.certifications, ip.years_experience,
		ip.created_at, ip.updated_at,
		u.id, u.email, u.first_name, u.last_name, u.phone, u.role_type,
		u.is_active, u.email_verified, u.profile_photo_file_id, u.created_at, u.updated_at`

func scanInstructor(row pgx.Row) (*models.InstructorProfile, error) {
	profile := &models.InstructorProfile{User: &models.User{}}
	err := row.Scan(
		&profile.ID, &profile.UserID, &profile.Bio, &profile.Certifications,
		&profile.YearsExperience, &profile.CreatedAt, &profile.UpdatedAt,
		&profile.User.ID, &profile.User.Email, &profile.User.FirstName, &profile.User.LastName,
		&profile.User.Phone, &profile.User.RoleType, &profile.User.IsActive,
		&profile.User.EmailVerified, &profile.User.ProfilePhotoFileID,
		&profile.User.CreatedAt, &profile.User.UpdatedAt,
		&profile.AverageRating, &profile.ReviewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error scanning instructor profile: %w", err)
	}
	return profile, nil
}

// GetProfileByID retrieves an instructor profile with user and rating aggregates
func (r *InstructorRepository) GetProfileByID(ctx context.Context, id int64) (*models.InstructorProfile, error) {
	row := r.db.QueryRow(ctx, instructorSelect+` WHERE ip.id = $1`+instructorGroupBy, id)
	return scanInstructor(row)
}

// GetProfileByUserID retrieves an instructor profile by the owning user's ID
func (r *InstructorRepository) GetProfileByUserID(ctx context.Context, userID int64) (*models.InstructorProfile, error) {
	row := r.db.QueryRow(ctx, instructorSelect+` WHERE ip.user_id = $1`+instructorGroupBy, userID)
	return scanInstructor(row)
}

// UpdateProfile updates the editable fields of an instructor profile
func (r *InstructorRepository) UpdateProfile(ctx context.Context, id int64, bio string, certifications *string, yearsExperience int) error {
	result, err := r.db.Exec(ctx, `
		UPDATE instructor_profiles
		SET bio = $1, certifications = $2, years_experience = $3, updated_at = NOW()
		WHERE id = $4`,
		bio, certifications, yearsExperience, id)

	if err != nil {
		return fmt.Errorf("error updating instructor profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}

	return nil
}

// buildInstructorListQuery assembles the list and count statements for the
// instructor listing. Every filter value is bound as a query argument.
func buildInstructorListQuery(filter *dto.InstructorFilter, offset, limit int) (string, string, []interface{}, []interface{}, error) {
	where := squirrel.And{squirrel.Eq{"u.is_active": true}}
	if filter != nil && filter.City != "" {
		// Instructors teaching at least one lesson in the city
		where = append(where, squirrel.Expr(
			`EXISTS (SELECT 1 FROM lessons cl JOIN locations cloc ON cloc.id = cl.location_id
				WHERE cl.instructor_id = ip.id AND cloc.city ILIKE ?)`, filter.City))
	}
	if filter != nil && filter.SkillLevel != "" {
		// Instructors teaching at least one lesson at the requested level
		where = append(where, squirrel.Expr(
			`EXISTS (SELECT 1 FROM lessons sl
				WHERE sl.instructor_id = ip.id AND sl.skill_level = ?)`, filter.SkillLevel))
	}

	whereSQL, args, err := where.ToSql()
	if err != nil {
		return "", "", nil, nil, fmt.Errorf("failed to build instructor filter: %w", err)
	}

	baseSQL := instructorSelect + ` WHERE ` + whereSQL + instructorGroupBy
	if filter != nil && filter.MinRating > 0 {
		baseSQL += ` HAVING AVG(rv.rating) >= ?`
		args = append(args, filter.MinRating)
	}

	// Counting over the grouped query keeps the total consistent with the
	// rating filter applied in HAVING.
	countSQL := `SELECT COUNT(*) FROM (` + baseSQL + `) AS matched`
	countArgs := args

	listSQL := baseSQL + ` ORDER BY AVG(rv.rating) DESC NULLS LAST, ip.id LIMIT ? OFFSET ?`
	listArgs := append(append([]interface{}{}, args...), limit, offset)

	// Squirrel emits ? placeholders for raw expressions; rewrite for pgx
	if countSQL, err = squirrel.Dollar.ReplacePlaceholders(countSQL); err != nil {
		return "", "", nil, nil, fmt.Errorf("failed to rewrite placeholders: %w", err)
	}
	if listSQL, err = squirrel.Dollar.ReplacePlaceholders(listSQL); err != nil {
		return "", "", nil, nil, fmt.Errorf("failed to rewrite placeholders: %w", err)
	}

	return listSQL, countSQL, listArgs, countArgs, nil
}

// ListInstructors retrieves instructors matching the filter, ordered by rating
func (r *InstructorRepository) ListInstructors(ctx context.Context, filter *dto.InstructorFilter, offset, limit int) ([]*models.InstructorProfile, int64, error) {
	listSQL, countSQL, listArgs, countArgs, err := buildInstructorListQuery(filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting instructors: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*models.InstructorProfile
	for rows.Next() {
		profile, err := scanInstructor(rows)
		if err != nil {
			return nil, 0, err
		}
		instructors = append(instructors, profile)
	}

	return instructors, total, rows.Err()
}
