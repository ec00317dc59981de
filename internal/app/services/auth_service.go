package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/app/repositories"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/auth"
	"github.com/mkaraca/sideout/internal/pkg/email"
	"github.com/mkaraca/sideout/internal/pkg/logger"
)

const (
	verificationTokenTTL  = 24 * time.Hour
	passwordResetTokenTTL = 1 * time.Hour
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	tx                TxRunner
	userRepo          *repositories.UserRepository
	tokenRepo         *repositories.TokenRepository
	verificationRepo  *repositories.VerificationTokenRepository
	passwordResetRepo *repositories.PasswordResetTokenRepository
	instructorRepo    *repositories.InstructorRepository
	jwtService        *auth.JWTService
	emailService      email.EmailService
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tx TxRunner,
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	verificationRepo *repositories.VerificationTokenRepository,
	passwordResetRepo *repositories.PasswordResetTokenRepository,
	instructorRepo *repositories.InstructorRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
) *AuthService {
	return &AuthService{
		tx:                tx,
		userRepo:          userRepo,
		tokenRepo:         tokenRepo,
		verificationRepo:  verificationRepo,
		passwordResetRepo: passwordResetRepo,
		instructorRepo:    instructorRepo,
		jwtService:        jwtService,
		emailService:      emailService,
	}
}

// Register creates a new account. Instructor registrations also create the
// instructor profile in the same transaction.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if req.RoleType == models.RoleInstructor && (req.Bio == nil || *req.Bio == "") {
		return nil, apperrors.NewBadRequestError("instructor registrations require a bio")
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleType:  req.RoleType,
		IsActive:  true,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.userRepo.CreateUser(ctx, tx, user)
		if err != nil {
			return err
		}
		user.ID = userID

		if req.RoleType == models.RoleInstructor {
			yearsExperience := 0
			if req.YearsExperience != nil {
				yearsExperience = *req.YearsExperience
			}
			profile := &models.InstructorProfile{
				UserID:          userID,
				Bio:             *req.Bio,
				Certifications:  req.Certifications,
				YearsExperience: yearsExperience,
			}
			if _, err := s.instructorRepo.CreateProfile(ctx, tx, profile); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sendVerificationToken(ctx, user); err != nil {
		// Registration already committed, the user can request a resend
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send verification email")
	}

	return user, nil
}

func (s *AuthService) sendVerificationToken(ctx context.Context, user *models.User) error {
	token := uuid.New().String()
	if err := s.verificationRepo.CreateToken(ctx, user.ID, token, time.Now().Add(verificationTokenTTL)); err != nil {
		return err
	}
	return s.emailService.SendVerificationEmail(user.Email, user.FirstName, token)
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	return tokens, user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}

// RefreshToken rotates a refresh token and issues a fresh token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, *models.User, error) {
	userID, _, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user, nil
}

// Logout revokes the given refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// VerifyEmail confirms the user's email address with a verification token
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, expiryDate, err := s.verificationRepo.GetTokenInfo(ctx, token)
	if err != nil {
		return err
	}

	if expiryDate.Before(time.Now()) {
		_ = s.verificationRepo.DeleteToken(ctx, token)
		return apperrors.ErrInvalidEmailToken
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}

	if err := s.verificationRepo.DeleteTokensByUserID(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to clean up verification tokens")
	}

	return nil
}

// ResendVerification issues a fresh verification token
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	if err := s.verificationRepo.DeleteTokensByUserID(ctx, user.ID); err != nil {
		return err
	}

	return s.sendVerificationToken(ctx, user)
}

// ForgotPassword starts a password reset flow. A missing account is treated
// as success so the endpoint cannot be used to probe for registered emails.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
		return nil
	}

	token := uuid.New().String()
	if err := s.passwordResetRepo.CreateToken(ctx, user.ID, token, time.Now().Add(passwordResetTokenTTL)); err != nil {
		return err
	}

	return s.emailService.SendPasswordResetEmail(user.Email, user.FirstName, token)
}

// ResetPassword completes a password reset flow
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, expiryDate, used, err := s.passwordResetRepo.GetTokenInfo(ctx, token)
	if err != nil {
		return apperrors.ErrInvalidPasswordResetToken
	}

	if used {
		return apperrors.ErrPasswordResetTokenUsed
	}

	if expiryDate.Before(time.Now()) {
		return apperrors.ErrInvalidPasswordResetToken
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	if err := s.passwordResetRepo.MarkTokenAsUsed(ctx, token); err != nil {
		return err
	}

	// Force a fresh login everywhere after a reset
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens after password reset")
	}

	return nil
}

// ChangePassword changes the password of an authenticated user
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}
