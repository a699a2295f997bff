package events

import "github.com/abihavaraj/animo-sub007/models"

// StudioEvent is implemented by every domain event that can produce
// notifications. The set of implementations below is closed; the
// dispatcher and translation layer switch exhaustively over it.
type StudioEvent interface {
	// NotificationType returns the type of notification the event
	// produces.
	NotificationType() models.NotificationType
}

// ClassCancelled fires when an admin cancels a class. Targets every user
// with a confirmed booking on the class.
type ClassCancelled struct {
	ClassID   string `json:"classID"`
	ClassName string `json:"className"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason,omitempty"`
}

func (e *ClassCancelled) NotificationType() models.NotificationType {
	return models.NotificationCancellation
}

// InstructorChanged fires when the instructor of a class is swapped.
// Targets confirmed bookings.
type InstructorChanged struct {
	ClassID       string `json:"classID"`
	ClassName     string `json:"className"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	OldInstructor string `json:"oldInstructor"`
	NewInstructor string `json:"newInstructor"`
}

func (e *InstructorChanged) NotificationType() models.NotificationType {
	return models.NotificationUpdate
}

// ClassRescheduled fires when a class is moved to a new start time.
// Targets confirmed bookings.
type ClassRescheduled struct {
	ClassID   string `json:"classID"`
	ClassName string `json:"className"`
	OldDate   string `json:"oldDate"`
	OldTime   string `json:"oldTime"`
	NewDate   string `json:"newDate"`
	NewTime   string `json:"newTime"`
}

func (e *ClassRescheduled) NotificationType() models.NotificationType {
	return models.NotificationUpdate
}

// ClassFull fires when the last spot in a class is taken. Targets the
// class instructor.
type ClassFull struct {
	ClassID      string `json:"classID"`
	ClassName    string `json:"className"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	InstructorID string `json:"instructorID"`
}

func (e *ClassFull) NotificationType() models.NotificationType {
	return models.NotificationClassFull
}

// WaitlistPromoted fires when a spot opens up and a waitlisted user is
// given it. Targets that user only.
type WaitlistPromoted struct {
	ClassID   string `json:"classID"`
	ClassName string `json:"className"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	UserID    string `json:"userID"`
}

func (e *WaitlistPromoted) NotificationType() models.NotificationType {
	return models.NotificationWaitlistPromotion
}

// ClassReminder is the event rendered into pre-scheduled class reminders.
type ClassReminder struct {
	ClassID   string `json:"classID"`
	ClassName string `json:"className"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

func (e *ClassReminder) NotificationType() models.NotificationType {
	return models.NotificationReminder
}

// SubscriptionExpiring fires when a user's subscription enters the expiry
// warning window. Targets that user.
type SubscriptionExpiring struct {
	UserID   string `json:"userID"`
	PlanName string `json:"planName"`
	EndDate  string `json:"endDate"`
	DaysLeft int    `json:"daysLeft"`
}

func (e *SubscriptionExpiring) NotificationType() models.NotificationType {
	return models.NotificationSubscriptionExpiring
}

// SubscriptionChanged fires when a user's plan is switched. Targets that
// user.
type SubscriptionChanged struct {
	UserID  string `json:"userID"`
	OldPlan string `json:"oldPlan"`
	NewPlan string `json:"newPlan"`
}

func (e *SubscriptionChanged) NotificationType() models.NotificationType {
	return models.NotificationSubscriptionChanged
}

// Welcome fires when a new user finishes signup. Targets that user.
type Welcome struct {
	UserID    string `json:"userID"`
	FirstName string `json:"firstName"`
}

func (e *Welcome) NotificationType() models.NotificationType {
	return models.NotificationWelcome
}

// NotifierStarted is emitted once the notifier's event loop is running.
type NotifierStarted struct{}
