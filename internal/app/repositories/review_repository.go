package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/dberrors"
)

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewSelect = `
	SELECT rv.id, rv.booking_id, rv.lesson_id, rv.player_id, rv.rating, rv.comment,
		rv.created_at, rv.updated_at,
		u.id, u.first_name, u.last_name
	FROM reviews rv
	JOIN users u ON u.id = rv.player_id`

func scanReview(row pgx.Row) (*models.Review, error) {
	review := &models.Review{Player: &models.User{}}
	err := row.Scan(
		&review.ID, &review.BookingID, &review.LessonID, &review.PlayerID,
		&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt,
		&review.Player.ID, &review.Player.FirstName, &review.Player.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error scanning review: %w", err)
	}
	return review, nil
}

// CreateReview creates a review for a booking. The unique constraint on
// booking_id enforces one review per booking.
func (r *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO reviews (booking_id, lesson_id, player_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		review.BookingID, review.LessonID, review.PlayerID,
		review.Rating, review.Comment).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "reviews_booking_id_key") {
			return 0, apperrors.ErrReviewExists
		}
		if dberrors.IsCheckViolation(err, "reviews_rating_check") {
			return 0, apperrors.ErrInvalidReviewRating
		}
		return 0, fmt.Errorf("error creating review: %w", err)
	}

	return id, nil
}

// GetReviewByID retrieves a review with its author
func (r *ReviewRepository) GetReviewByID(ctx context.Context, id int64) (*models.Review, error) {
	row := r.db.QueryRow(ctx, reviewSelect+` WHERE rv.id = $1`, id)
	return scanReview(row)
}

// ListByLesson retrieves a lesson's reviews, newest first
func (r *ReviewRepository) ListByLesson(ctx context.Context, lessonID int64, offset, limit int) ([]*models.Review, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM reviews WHERE lesson_id = $1`,
		lessonID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting reviews: %w", err)
	}

	rows, err := r.db.Query(ctx,
		reviewSelect+` WHERE rv.lesson_id = $1 ORDER BY rv.created_at DESC LIMIT $2 OFFSET $3`,
		lessonID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

// ListByInstructor retrieves reviews across all of an instructor's lessons
func (r *ReviewRepository) ListByInstructor(ctx context.Context, instructorID int64, offset, limit int) ([]*models.Review, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM reviews rv
		JOIN lessons l ON l.id = rv.lesson_id
		WHERE l.instructor_id = $1`,
		instructorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting instructor reviews: %w", err)
	}

	rows, err := r.db.Query(ctx,
		reviewSelect+` JOIN lessons l ON l.id = rv.lesson_id
		WHERE l.instructor_id = $1
		ORDER BY rv.created_at DESC LIMIT $2 OFFSET $3`,
		instructorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying instructor reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

// DeleteReview removes a review
func (r *ReviewRepository) DeleteReview(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}

	return nil
}
