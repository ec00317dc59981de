package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

// VerificationTokenRepository handles database operations for email verification tokens
type VerificationTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewVerificationTokenRepository creates a new VerificationTokenRepository
func NewVerificationTokenRepository(db *pgxpool.Pool) *VerificationTokenRepository {
	return &VerificationTokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateToken creates a new email verification token for a user
func (r *VerificationTokenRepository) CreateToken(ctx context.Context, userID int64, token string, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("email_verification_tokens").
		Columns("user_id", "token", "expiry_date").
		Values(userID, token, expiryDate).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating verification token: %w", err)
	}

	return nil
}

// GetTokenInfo retrieves token information by token value
func (r *VerificationTokenRepository) GetTokenInfo(ctx context.Context, token string) (int64, time.Time, error) {
	sql, args, err := r.sb.Select("user_id", "expiry_date").
		From("email_verification_tokens").
		Where(squirrel.Eq{"token": token}).
		ToSql()

	if err != nil {
		return 0, time.Time{}, fmt.Errorf("error building SQL: %w", err)
	}

	var userID int64
	var expiryDate time.Time

	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiryDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, time.Time{}, apperrors.ErrInvalidEmailToken
		}
		return 0, time.Time{}, fmt.Errorf("error getting token info: %w", err)
	}

	return userID, expiryDate, nil
}

// DeleteToken deletes a verification token
func (r *VerificationTokenRepository) DeleteToken(ctx context.Context, token string) error {
	sql, args, err := r.sb.Delete("email_verification_tokens").
		Where(squirrel.Eq{"token": token}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}

	return nil
}

// DeleteTokensByUserID deletes all tokens for a specific user
func (r *VerificationTokenRepository) DeleteTokensByUserID(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Delete("email_verification_tokens").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting tokens for user: %w", err)
	}

	return nil
}

// DeleteExpiredTokens deletes all expired tokens
func (r *VerificationTokenRepository) DeleteExpiredTokens(ctx context.Context) error {
	sql, args, err := r.sb.Delete("email_verification_tokens").
		Where(squirrel.Lt{"expiry_date": time.Now()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting expired tokens: %w", err)
	}

	return nil
}
