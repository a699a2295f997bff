package factory

import (
	"fmt"
	"time"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/google/uuid"
)

// NewUser returns a studio user suitable for tests.
func NewUser() *models.StudioUser {
	id := uuid.NewString()
	return &models.StudioUser{
		ID:        id,
		FirstName: "Arta",
		LastName:  "Krasniqi",
		Email:     fmt.Sprintf("%s@example.com", id[:8]),
		Locale:    "en",
		Role:      "client",
	}
}

// NewClass returns a class starting two hours from now.
func NewClass() *models.StudioClass {
	return &models.StudioClass{
		ID:             uuid.NewString(),
		Name:           "Reformer Flow",
		InstructorID:   uuid.NewString(),
		InstructorName: "Elira Hoxha",
		StartTime:      time.Now().Add(2 * time.Hour),
		Capacity:       12,
	}
}

// NewBooking returns a confirmed booking tying the user to the class.
func NewBooking(classID, userID string) *models.Booking {
	return &models.Booking{
		ID:      uuid.NewString(),
		ClassID: classID,
		UserID:  userID,
		Status:  models.BookingConfirmed,
	}
}

// NewPushToken returns an active push token in the gateway's format.
func NewPushToken(userID string) *models.PushToken {
	return &models.PushToken{
		ID:         uuid.NewString(),
		UserID:     userID,
		Token:      fmt.Sprintf("ExponentPushToken[%s]", uuid.NewString()[:22]),
		DeviceType: "ios",
		DeviceName: "iPhone",
		IsActive:   true,
	}
}

// NewSubscription returns an active subscription ending in thirty days.
func NewSubscription(userID string) *models.UserSubscription {
	return &models.UserSubscription{
		ID:       uuid.NewString(),
		UserID:   userID,
		PlanID:   uuid.NewString(),
		PlanName: "Monthly Unlimited",
		Status:   models.SubscriptionActive,
		EndDate:  time.Now().Add(30 * 24 * time.Hour),
	}
}
