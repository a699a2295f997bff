package models

import "time"

// Booking statuses. Only confirmed bookings receive class notifications.
const (
	BookingConfirmed = "confirmed"
	BookingWaitlist  = "waitlist"
	BookingCancelled = "cancelled"
)

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// StudioUser is a client or instructor of the studio. The LegacyPushToken
// field carries the single-token registration from before multi-device
// support; it is only consulted when a user has no rows in push_tokens.
type StudioUser struct {
	ID              string    `gorm:"primary_key" json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `gorm:"index" json:"email"`
	Locale          string    `json:"locale"`
	Role            string    `json:"role"`
	LegacyPushToken string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StudioClass is a scheduled class on the studio calendar.
type StudioClass struct {
	ID             string    `gorm:"primary_key" json:"id"`
	Name           string    `json:"name"`
	InstructorID   string    `gorm:"index" json:"instructorID"`
	InstructorName string    `json:"instructorName"`
	StartTime      time.Time `json:"startTime"`
	Capacity       int       `json:"capacity"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Booking ties a user to a class.
type Booking struct {
	ID        string    `gorm:"primary_key" json:"id"`
	ClassID   string    `gorm:"index" json:"classID"`
	UserID    string    `gorm:"index" json:"userID"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSubscription is a user's plan membership. Expiry notifications are
// resolved from rows whose end date falls inside the warning window.
type UserSubscription struct {
	ID        string    `gorm:"primary_key" json:"id"`
	UserID    string    `gorm:"index" json:"userID"`
	PlanID    string    `json:"planID"`
	PlanName  string    `json:"planName"`
	Status    string    `json:"status"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
