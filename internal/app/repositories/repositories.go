package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repository methods that must run inside a caller-owned transaction accept a
// Querier so the service layer decides the transaction boundary.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all repository instances
type Repositories struct {
	User               *UserRepository
	Token              *TokenRepository
	VerificationToken  *VerificationTokenRepository
	PasswordResetToken *PasswordResetTokenRepository
	Instructor         *InstructorRepository
	Location           *LocationRepository
	Lesson             *LessonRepository
	Booking            *BookingRepository
	Payment            *PaymentRepository
	Review             *ReviewRepository
	File               *FileRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:               NewUserRepository(db),
		Token:              NewTokenRepository(db),
		VerificationToken:  NewVerificationTokenRepository(db),
		PasswordResetToken: NewPasswordResetTokenRepository(db),
		Instructor:         NewInstructorRepository(db),
		Location:           NewLocationRepository(db),
		Lesson:             NewLessonRepository(db),
		Booking:            NewBookingRepository(db),
		Payment:            NewPaymentRepository(db),
		Review:             NewReviewRepository(db),
		File:               NewFileRepository(db),
	}
}
