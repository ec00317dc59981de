package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

// LessonRepository handles lesson database operations
type LessonRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// bookedCountExpr counts bookings that still hold a spot
const bookedCountExpr = `(SELECT COUNT(*) FROM bookings b
	WHERE b.lesson_id = l.id AND b.status IN ('PENDING', 'CONFIRMED'))`

const lessonSelect = `
	SELECT l.id, l.instructor_id, l.location_id, l.title, l.description,
		l.skill_level, l.capacity, l.price, l.currency, l.starts_at, l.ends_at,
		l.status, l.created_at, l.updated_at, ` + bookedCountExpr + `,
		ip.id, ip.user_id, ip.bio, ip.years_experience,
		u.first_name, u.last_name,
		loc.id, loc.name, loc.address, loc.city, loc.latitude, loc.longitude, loc.court_count
	FROM lessons l
	JOIN instructor_profiles ip ON ip.id = l.instructor_id
	JOIN users u ON u.id = ip.user_id
	JOIN locations loc ON loc.id = l.location_id`

func scanLessonWithRelations(row pgx.Row) (*models.Lesson, error) {
	lesson := &models.Lesson{
		Instructor: &models.InstructorProfile{User: &models.User{}},
		Location:   &models.Location{},
	}
	err := row.Scan(
		&lesson.ID, &lesson.InstructorID, &lesson.LocationID, &lesson.Title,
		&lesson.Description, &lesson.SkillLevel, &lesson.Capacity, &lesson.Price,
		&lesson.Currency, &lesson.StartsAt, &lesson.EndsAt, &lesson.Status,
		&lesson.CreatedAt, &lesson.UpdatedAt, &lesson.BookedCount,
		&lesson.Instructor.ID, &lesson.Instructor.UserID, &lesson.Instructor.Bio,
		&lesson.Instructor.YearsExperience,
		&lesson.Instructor.User.FirstName, &lesson.Instructor.User.LastName,
		&lesson.Location.ID, &lesson.Location.Name, &lesson.Location.Address,
		&lesson.Location.City, &lesson.Location.Latitude, &lesson.Location.Longitude,
		&lesson.Location.CourtCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error scanning lesson: %w", err)
	}
	return lesson, nil
}

// CreateLesson creates a new lesson and returns its ID
func (r *LessonRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO lessons (instructor_id, location_id, title, description, skill_level,
			capacity, price, currency, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		lesson.InstructorID, lesson.LocationID, lesson.Title, lesson.Description,
		lesson.SkillLevel, lesson.Capacity, lesson.Price, lesson.Currency,
		lesson.StartsAt, lesson.EndsAt, lesson.Status).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error creating lesson: %w", err)
	}

	return id, nil
}

// GetLessonByID retrieves a lesson with instructor, location and booked count
func (r *LessonRepository) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	row := r.db.QueryRow(ctx, lessonSelect+` WHERE l.id = $1`, id)
	return scanLessonWithRelations(row)
}

// GetLessonForUpdate locks the lesson row for the duration of the caller's
// transaction and returns it together with its current booked count.
func (r *LessonRepository) GetLessonForUpdate(ctx context.Context, q Querier, id int64) (*models.Lesson, error) {
	lesson := &models.Lesson{}
	err := q.QueryRow(ctx, `
		SELECT id, instructor_id, location_id, title, description, skill_level,
			capacity, price, currency, starts_at, ends_at, status, created_at, updated_at
		FROM lessons
		WHERE id = $1
		FOR UPDATE`,
		id).Scan(
		&lesson.ID, &lesson.InstructorID, &lesson.LocationID, &lesson.Title,
		&lesson.Description, &lesson.SkillLevel, &lesson.Capacity, &lesson.Price,
		&lesson.Currency, &lesson.StartsAt, &lesson.EndsAt, &lesson.Status,
		&lesson.CreatedAt, &lesson.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error locking lesson: %w", err)
	}

	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE lesson_id = $1 AND status IN ('PENDING', 'CONFIRMED')`,
		id).Scan(&lesson.BookedCount); err != nil {
		return nil, fmt.Errorf("error counting bookings: %w", err)
	}

	return lesson, nil
}

// ListLessons retrieves lessons matching the calendar filter
func (r *LessonRepository) ListLessons(ctx context.Context, filter *dto.LessonFilter, offset, limit int) ([]*models.Lesson, int64, error) {
	where := squirrel.And{squirrel.Eq{"l.status": models.LessonScheduled}}
	if filter != nil {
		if filter.From != nil {
			where = append(where, squirrel.GtOrEq{"l.starts_at": *filter.From})
		}
		if filter.To != nil {
			where = append(where, squirrel.Lt{"l.starts_at": *filter.To})
		}
		if filter.LocationID > 0 {
			where = append(where, squirrel.Eq{"l.location_id": filter.LocationID})
		}
		if filter.InstructorID > 0 {
			where = append(where, squirrel.Eq{"l.instructor_id": filter.InstructorID})
		}
		if filter.SkillLevel != "" {
			where = append(where, squirrel.Eq{"l.skill_level": filter.SkillLevel})
		}
		if filter.OnlyAvailable {
			where = append(where, squirrel.Expr(bookedCountExpr+` < l.capacity`))
		}
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("lessons l").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build lesson count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting lessons: %w", err)
	}

	whereSQL, whereArgs, err := where.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build lesson filter: %w", err)
	}
	whereSQL, err = squirrel.Dollar.ReplacePlaceholders(whereSQL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to rewrite placeholders: %w", err)
	}

	listSQL := lessonSelect + ` WHERE ` + whereSQL +
		fmt.Sprintf(` ORDER BY l.starts_at, l.id LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.Query(ctx, listSQL, whereArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		lesson, err := scanLessonWithRelations(rows)
		if err != nil {
			return nil, 0, err
		}
		lessons = append(lessons, lesson)
	}

	return lessons, total, rows.Err()
}

// ListUpcomingByInstructor retrieves the instructor's next scheduled lessons
func (r *LessonRepository) ListUpcomingByInstructor(ctx context.Context, instructorID int64, limit int) ([]*models.Lesson, error) {
	rows, err := r.db.Query(ctx,
		lessonSelect+` WHERE l.instructor_id = $1 AND l.status = $2 AND l.starts_at > NOW()
		ORDER BY l.starts_at LIMIT $3`,
		instructorID, models.LessonScheduled, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		lesson, err := scanLessonWithRelations(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}

	return lessons, rows.Err()
}

// UpdateLesson updates the editable fields of a lesson
func (r *LessonRepository) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	result, err := r.db.Exec(ctx, `
		UPDATE lessons
		SET title = $1, description = $2, skill_level = $3, capacity = $4,
			price = $5, location_id = $6, starts_at = $7, ends_at = $8, updated_at = NOW()
		WHERE id = $9`,
		lesson.Title, lesson.Description, lesson.SkillLevel, lesson.Capacity,
		lesson.Price, lesson.LocationID, lesson.StartsAt, lesson.EndsAt, lesson.ID)

	if err != nil {
		return fmt.Errorf("error updating lesson: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// UpdateStatus changes the lesson lifecycle state
func (r *LessonRepository) UpdateStatus(ctx context.Context, q Querier, id int64, status models.LessonStatus) error {
	result, err := q.Exec(ctx, `
		UPDATE lessons
		SET status = $1, updated_at = NOW()
		WHERE id = $2`,
		status, id)

	if err != nil {
		return fmt.Errorf("error updating lesson status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// HasOverlappingLesson reports whether the instructor already has a scheduled
// lesson overlapping the given window. Intervals are half-open, so lessons
// touching at the boundary do not conflict. Pass excludeLessonID = 0 on create.
func (r *LessonRepository) HasOverlappingLesson(ctx context.Context, instructorID int64, startsAt, endsAt time.Time, excludeLessonID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM lessons
			WHERE instructor_id = $1 AND status = $2
				AND starts_at < $4 AND ends_at > $3
				AND id != $5)`,
		instructorID, models.LessonScheduled, startsAt, endsAt, excludeLessonID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking lesson overlap: %w", err)
	}

	return exists, nil
}

// HasActiveBookings reports whether any booking still holds a spot in the lesson
func (r *LessonRepository) HasActiveBookings(ctx context.Context, lessonID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM bookings
			WHERE lesson_id = $1 AND status IN ('PENDING', 'CONFIRMED'))`,
		lessonID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking lesson bookings: %w", err)
	}

	return exists, nil
}

// CompleteFinishedLessons marks scheduled lessons whose end time has passed as
// completed and returns how many rows changed.
func (r *LessonRepository) CompleteFinishedLessons(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE lessons
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND ends_at < NOW()`,
		models.LessonCompleted, models.LessonScheduled)

	if err != nil {
		return 0, fmt.Errorf("error completing finished lessons: %w", err)
	}

	return result.RowsAffected(), nil
}
