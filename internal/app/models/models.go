package models

// RoleType defines the user role type
type RoleType string

const (
	RolePlayer     RoleType = "PLAYER"
	RoleInstructor RoleType = "INSTRUCTOR"
)

// SkillLevel classifies the target audience of a lesson
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillAll          SkillLevel = "ALL"
)

// ValidSkillLevel reports whether the value is one of the known skill levels.
func ValidSkillLevel(s SkillLevel) bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillAll:
		return true
	}
	return false
}

// LessonStatus is the lifecycle state of a lesson
type LessonStatus string

const (
	LessonScheduled LessonStatus = "SCHEDULED"
	LessonCancelled LessonStatus = "CANCELLED"
	LessonCompleted LessonStatus = "COMPLETED"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingRefunded  BookingStatus = "REFUNDED"
)

// PaymentStatus mirrors the states we track for a provider payment intent
type PaymentStatus string

const (
	PaymentRequiresPayment PaymentStatus = "REQUIRES_PAYMENT"
	PaymentSucceeded       PaymentStatus = "SUCCEEDED"
	PaymentFailed          PaymentStatus = "FAILED"
	PaymentRefunded        PaymentStatus = "REFUNDED"
)
