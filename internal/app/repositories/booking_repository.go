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

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingSelect = `
	SELECT bk.id, bk.lesson_id, bk.player_id, bk.status, bk.payment_intent_id,
		bk.amount, bk.currency, bk.created_at, bk.updated_at,
		l.id, l.instructor_id, l.location_id, l.title, l.skill_level, l.capacity,
		l.price, l.currency, l.starts_at, l.ends_at, l.status,
		loc.id, loc.name, loc.address, loc.city
	FROM bookings bk
	JOIN lessons l ON l.id = bk.lesson_id
	JOIN locations loc ON loc.id = l.location_id`

func scanBookingWithLesson(row pgx.Row) (*models.Booking, error) {
	booking := &models.Booking{
		Lesson: &models.Lesson{Location: &models.Location{}},
	}
	err := row.Scan(
		&booking.ID, &booking.LessonID, &booking.PlayerID, &booking.Status,
		&booking.PaymentIntentID, &booking.Amount, &booking.Currency,
		&booking.CreatedAt, &booking.UpdatedAt,
		&booking.Lesson.ID, &booking.Lesson.InstructorID, &booking.Lesson.LocationID,
		&booking.Lesson.Title, &booking.Lesson.SkillLevel, &booking.Lesson.Capacity,
		&booking.Lesson.Price, &booking.Lesson.Currency, &booking.Lesson.StartsAt,
		&booking.Lesson.EndsAt, &booking.Lesson.Status,
		&booking.Lesson.Location.ID, &booking.Lesson.Location.Name,
		&booking.Lesson.Location.Address, &booking.Lesson.Location.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("error scanning booking: %w", err)
	}
	return booking, nil
}

// CreateBooking inserts a booking inside the caller's transaction. The partial
// unique index on (lesson_id, player_id) for non-cancelled rows catches races
// the service-level check cannot see.
func (r *BookingRepository) CreateBooking(ctx context.Context, q Querier, booking *models.Booking) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO bookings (lesson_id, player_id, status, amount, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		booking.LessonID, booking.PlayerID, booking.Status,
		booking.Amount, booking.Currency).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "bookings_active_lesson_player_idx") {
			return 0, apperrors.ErrBookingExists
		}
		return 0, fmt.Errorf("error creating booking: %w", err)
	}

	return id, nil
}

// GetBookingByID retrieves a booking with its lesson and location
func (r *BookingRepository) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	row := r.db.QueryRow(ctx, bookingSelect+` WHERE bk.id = $1`, id)
	return scanBookingWithLesson(row)
}

// GetByPaymentIntentID retrieves the booking tied to a provider payment intent
func (r *BookingRepository) GetByPaymentIntentID(ctx context.Context, intentID string) (*models.Booking, error) {
	row := r.db.QueryRow(ctx, bookingSelect+` WHERE bk.payment_intent_id = $1`, intentID)
	return scanBookingWithLesson(row)
}

// ListByPlayer retrieves a player's bookings, newest first
func (r *BookingRepository) ListByPlayer(ctx context.Context, playerID int64, offset, limit int) ([]*models.Booking, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE player_id = $1`,
		playerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %w", err)
	}

	rows, err := r.db.Query(ctx,
		bookingSelect+` WHERE bk.player_id = $1 ORDER BY bk.created_at DESC LIMIT $2 OFFSET $3`,
		playerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBookingWithLesson(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, total, rows.Err()
}

// ListByLesson retrieves all bookings for a lesson with the booking player
func (r *BookingRepository) ListByLesson(ctx context.Context, lessonID int64) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT bk.id, bk.lesson_id, bk.player_id, bk.status, bk.payment_intent_id,
			bk.amount, bk.currency, bk.created_at, bk.updated_at,
			u.id, u.email, u.first_name, u.last_name, u.phone
		FROM bookings bk
		JOIN users u ON u.id = bk.player_id
		WHERE bk.lesson_id = $1
		ORDER BY bk.created_at`,
		lessonID)
	if err != nil {
		return nil, fmt.Errorf("error querying lesson bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking := &models.Booking{Player: &models.User{}}
		err := rows.Scan(
			&booking.ID, &booking.LessonID, &booking.PlayerID, &booking.Status,
			&booking.PaymentIntentID, &booking.Amount, &booking.Currency,
			&booking.CreatedAt, &booking.UpdatedAt,
			&booking.Player.ID, &booking.Player.Email, &booking.Player.FirstName,
			&booking.Player.LastName, &booking.Player.Phone)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// UpdateStatus changes the booking lifecycle state
func (r *BookingRepository) UpdateStatus(ctx context.Context, q Querier, id int64, status models.BookingStatus) error {
	result, err := q.Exec(ctx, `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2`,
		status, id)

	if err != nil {
		return fmt.Errorf("error updating booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrBookingNotFound
	}

	return nil
}

// SetPaymentIntent records the provider payment intent ID on a booking
func (r *BookingRepository) SetPaymentIntent(ctx context.Context, q Querier, id int64, intentID string) error {
	result, err := q.Exec(ctx, `
		UPDATE bookings
		SET payment_intent_id = $1, updated_at = NOW()
		WHERE id = $2`,
		intentID, id)

	if err != nil {
		return fmt.Errorf("error setting payment intent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrBookingNotFound
	}

	return nil
}

// HasActiveForLesson reports whether the player already holds a spot in the lesson
func (r *BookingRepository) HasActiveForLesson(ctx context.Context, q Querier, lessonID, playerID int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM bookings
			WHERE lesson_id = $1 AND player_id = $2 AND status IN ('PENDING', 'CONFIRMED'))`,
		lessonID, playerID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking existing booking: %w", err)
	}

	return exists, nil
}

// HasOverlappingBooking reports whether the player holds a spot in any other
// lesson overlapping the given window. Intervals are half-open.
func (r *BookingRepository) HasOverlappingBooking(ctx context.Context, q Querier, playerID int64, startsAt, endsAt time.Time) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM bookings bk
			JOIN lessons l ON l.id = bk.lesson_id
			WHERE bk.player_id = $1 AND bk.status IN ('PENDING', 'CONFIRMED')
				AND l.status = 'SCHEDULED'
				AND l.starts_at < $3 AND l.ends_at > $2)`,
		playerID, startsAt, endsAt).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking booking overlap: %w", err)
	}

	return exists, nil
}

// GetPlayerBookingForLesson retrieves the player's confirmed or completed
// booking for a lesson, used when validating reviews.
func (r *BookingRepository) GetPlayerBookingForLesson(ctx context.Context, lessonID, playerID int64) (*models.Booking, error) {
	row := r.db.QueryRow(ctx,
		bookingSelect+` WHERE bk.lesson_id = $1 AND bk.player_id = $2 AND bk.status = 'CONFIRMED'`,
		lessonID, playerID)
	return scanBookingWithLesson(row)
}
