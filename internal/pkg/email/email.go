package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for transactional email
type EmailService interface {
	SendVerificationEmail(toEmail, toName, token string) error
	SendPasswordResetEmail(toEmail, toName, token string) error
	SendBookingConfirmationEmail(toEmail, toName, lessonTitle string, startsAt time.Time, locationName string) error
	SendBookingCancellationEmail(toEmail, toName, lessonTitle string, refunded bool) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string // Base URL of the application, used in links
}

// SMTPService implements EmailService over plain SMTP
type SMTPService struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPService creates a new SMTP-backed EmailService
func NewSMTPService(config SMTPConfig, logger zerolog.Logger) *SMTPService {
	return &SMTPService{
		config: config,
		logger: logger,
	}
}

// SendVerificationEmail sends an email with a verification link
func (s *SMTPService) SendVerificationEmail(toEmail, toName, token string) error {
	verificationURL := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.config.BaseURL, token)

	// Without SMTP credentials (development), log the link instead of sending
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("verificationURL", verificationURL).
			Msg("SMTP credentials not configured, verification email not sent")
		return nil
	}

	subject := "Verify your email address"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2>Welcome to SideOut!</h2>
				<p>Hello %s,</p>
				<p>Thanks for signing up. Please verify your email address by clicking the button below:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #f4a742; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Verify Email</a>
				</div>
				<p>This link expires in 24 hours. If you did not create a SideOut account, ignore this email.</p>
				<p>See you on the sand,<br>The SideOut Team</p>
			</div>
		</body>
		</html>
	`, toName, verificationURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends an email with a password reset link
func (s *SMTPService) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, token)

	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP credentials not configured, password reset email not sent")
		return nil
	}

	subject := "Reset your password"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2>Password reset</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset your password. Click the button below to choose a new one:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #f4a742; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>
				<p>This link expires in 1 hour. If you did not request a reset, ignore this email.</p>
				<p>The SideOut Team</p>
			</div>
		</body>
		</html>
	`, toName, resetURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendBookingConfirmationEmail confirms a paid booking
func (s *SMTPService) SendBookingConfirmationEmail(toEmail, toName, lessonTitle string, startsAt time.Time, locationName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("lessonTitle", lessonTitle).
			Msg("SMTP credentials not configured, booking confirmation email not sent")
		return nil
	}

	subject := "Your lesson is booked!"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2>You're in!</h2>
				<p>Hello %s,</p>
				<p>Your spot in <strong>%s</strong> is confirmed.</p>
				<p><strong>When:</strong> %s<br><strong>Where:</strong> %s</p>
				<p>Bring water and sunscreen. See you on the sand!</p>
				<p>The SideOut Team</p>
			</div>
		</body>
		</html>
	`, toName, lessonTitle, startsAt.Format("Monday, Jan 2 2006 at 15:04 MST"), locationName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendBookingCancellationEmail notifies the player about a cancelled booking
func (s *SMTPService) SendBookingCancellationEmail(toEmail, toName, lessonTitle string, refunded bool) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("lessonTitle", lessonTitle).
			Bool("refunded", refunded).
			Msg("SMTP credentials not configured, cancellation email not sent")
		return nil
	}

	refundNote := "No payment was captured for this booking."
	if refunded {
		refundNote = "Your payment has been refunded and should appear on your statement within a few business days."
	}

	subject := "Booking cancelled"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2>Booking cancelled</h2>
				<p>Hello %s,</p>
				<p>Your booking for <strong>%s</strong> has been cancelled.</p>
				<p>%s</p>
				<p>The SideOut Team</p>
			</div>
		</body>
		</html>
	`, toName, lessonTitle, refundNote)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *SMTPService) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// sendHTMLEmail sends an HTML email over SMTP
func (s *SMTPService) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
