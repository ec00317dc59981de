package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkaraca/sideout/internal/app/controllers"
	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/app/models/dto"
	"github.com/mkaraca/sideout/internal/middleware"
)

// dbPinger is the database surface the health endpoint depends on
type dbPinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	instructorController *controllers.InstructorController,
	locationController *controllers.LocationController,
	lessonController *controllers.LessonController,
	bookingController *controllers.BookingController,
	reviewController *controllers.ReviewController,
	paymentController *controllers.PaymentController,
	database dbPinger,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
		auth.GET("/verify-email", authController.VerifyEmail)
		auth.POST("/resend-verification", authController.ResendVerification)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Public catalog routes ---
	// Instructors, locations and the lesson calendar are browsable without
	// an account so players can look around before signing up.
	instructors := v1.Group("/instructors")
	{
		instructors.GET("", instructorController.ListInstructors)
		instructors.GET("/:id", instructorController.GetInstructor)
		instructors.GET("/:id/reviews", instructorController.ListInstructorReviews)
	}

	locations := v1.Group("/locations")
	{
		locations.GET("", locationController.ListLocations)
		locations.GET("/:id", locationController.GetLocation)
	}

	lessons := v1.Group("/lessons")
	{
		lessons.GET("", lessonController.ListLessons)
		lessons.GET("/:id", lessonController.GetLesson)
		lessons.GET("/:id/reviews", lessonController.ListLessonReviews)
	}

	// --- Payment provider callback ---
	// Authenticated by signature verification, not by JWT.
	v1.POST("/payments/webhook", paymentController.HandleStripeWebhook)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Account routes stay reachable before email verification so users
		// can see their profile and change their password.
		authenticated.POST("/auth/change-password", authController.ChangePassword)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMe)
			users.PUT("/me", userController.UpdateMe)
			users.POST("/me/photo", userController.UploadProfilePhoto)
			users.DELETE("/me/photo", userController.DeleteProfilePhoto)
		}
	}

	// --- Authenticated and email verified routes ---
	verified := authenticated.Group("")
	verified.Use(authMiddleware.EmailVerificationRequired())
	{
		bookings := verified.Group("/bookings")
		{
			bookings.POST("", bookingController.CreateBooking)
			bookings.GET("", bookingController.ListMyBookings)
			bookings.GET("/:id", bookingController.GetBooking)
			bookings.DELETE("/:id", bookingController.CancelBooking)
		}

		verified.POST("/lessons/:id/reviews", lessonController.CreateLessonReview)
		verified.DELETE("/reviews/:id", reviewController.DeleteReview)

		// Instructor-only routes
		instructorOnly := verified.Group("")
		instructorOnly.Use(authMiddleware.RoleRequired(string(models.RoleInstructor)))
		{
			instructorOnly.PUT("/instructors/me", instructorController.UpdateMyProfile)

			instructorOnly.POST("/lessons", lessonController.CreateLesson)
			instructorOnly.PUT("/lessons/:id", lessonController.UpdateLesson)
			instructorOnly.DELETE("/lessons/:id", lessonController.CancelLesson)
			instructorOnly.GET("/lessons/:id/bookings", lessonController.ListLessonBookings)

			instructorOnly.POST("/locations", locationController.CreateLocation)
			instructorOnly.PUT("/locations/:id", locationController.UpdateLocation)
			instructorOnly.DELETE("/locations/:id", locationController.DeleteLocation)
			instructorOnly.POST("/locations/:id/photos", locationController.AddLocationPhoto)
			instructorOnly.DELETE("/locations/:id/photos/:fileId", locationController.RemoveLocationPhoto)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", healthHandler(database))
}

// healthHandler reports service health including database connectivity
func healthHandler(database dbPinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.APIResponse{
				Data:      gin.H{"status": "degraded", "database": "down"},
				Timestamp: time.Now(),
			})
			return
		}

		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      gin.H{"status": "ok", "database": "up"},
			Timestamp: time.Now(),
		})
	}
}
