package services

import (
	"context"

	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/config"
	"github.com/mkaraca/sideout/internal/db"
	"github.com/mkaraca/sideout/internal/pkg/auth"
	"github.com/mkaraca/sideout/internal/pkg/email"
	"github.com/mkaraca/sideout/internal/pkg/filestorage"
	"github.com/mkaraca/sideout/internal/pkg/payments"
)

// TxRunner runs a function inside a database transaction. *db.PostgresDB
// satisfies it; tests substitute a fake that passes a stub Querier through.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	User       *UserService
	Instructor *InstructorService
	Location   *LocationService
	Lesson     *LessonService
	Booking    *BookingService
	Payment    *PaymentService
	Review     *ReviewService
}

// NewServices wires all services with their dependencies
func NewServices(
	cfg *config.Config,
	database *db.PostgresDB,
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	paymentProvider payments.Provider,
	storage filestorage.FileStorage,
) *Services {
	return &Services{
		Auth: NewAuthService(database, repos.User, repos.Token, repos.VerificationToken,
			repos.PasswordResetToken, repos.Instructor, jwtService, emailService),
		User:       NewUserService(repos.User, repos.File, storage),
		Instructor: NewInstructorService(repos.Instructor, repos.Lesson),
		Location:   NewLocationService(repos.Location, repos.File, storage),
		Lesson: NewLessonService(database, repos.Lesson, repos.Location, repos.Instructor,
			repos.Booking, repos.Payment, paymentProvider, emailService,
			cfg.Stripe.Currency),
		Booking: NewBookingService(database, repos.Booking, repos.Lesson, repos.Instructor,
			repos.Payment, paymentProvider, cfg.Booking.CancelCutoffHours),
		Payment: NewPaymentService(database, repos.Booking, repos.Payment, repos.User,
			paymentProvider, emailService),
		Review: NewReviewService(repos.Review, repos.Booking, repos.Lesson),
	}
}
