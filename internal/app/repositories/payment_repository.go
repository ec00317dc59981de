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

// PaymentRepository handles payment record database operations
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, booking_id, provider_intent_id, status, amount, currency, created_at, updated_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	payment := &models.Payment{}
	err := row.Scan(
		&payment.ID, &payment.BookingID, &payment.ProviderIntentID, &payment.Status,
		&payment.Amount, &payment.Currency, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error scanning payment: %w", err)
	}
	return payment, nil
}

// CreatePayment records a provider payment intent for a booking
func (r *PaymentRepository) CreatePayment(ctx context.Context, q Querier, payment *models.Payment) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO payments (booking_id, provider_intent_id, status, amount, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		payment.BookingID, payment.ProviderIntentID, payment.Status,
		payment.Amount, payment.Currency).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "payments_provider_intent_id_key") {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		return 0, fmt.Errorf("error creating payment: %w", err)
	}

	return id, nil
}

// GetByProviderIntentID retrieves a payment by the provider's intent ID
func (r *PaymentRepository) GetByProviderIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE provider_intent_id = $1`, intentID)
	return scanPayment(row)
}

// GetByBookingID retrieves the payment record for a booking
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1`, bookingID)
	return scanPayment(row)
}

// UpdateStatusByIntentID transitions the payment state for a provider intent
func (r *PaymentRepository) UpdateStatusByIntentID(ctx context.Context, q Querier, intentID string, status models.PaymentStatus) error {
	result, err := q.Exec(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE provider_intent_id = $2`,
		status, intentID)

	if err != nil {
		return fmt.Errorf("error updating payment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}

	return nil
}
