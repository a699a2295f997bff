package models

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"
)

// NotificationType identifies the kind of notification a record holds.
// The set is closed; the translation layer switches exhaustively over it.
type NotificationType string

const (
	NotificationReminder             NotificationType = "reminder"
	NotificationCancellation         NotificationType = "cancellation"
	NotificationUpdate               NotificationType = "update"
	NotificationWaitlistPromotion    NotificationType = "waitlist_promotion"
	NotificationSubscriptionExpiring NotificationType = "subscription_expiring"
	NotificationSubscriptionChanged  NotificationType = "subscription_changed"
	NotificationClassFull            NotificationType = "class_full"
	NotificationWelcome              NotificationType = "welcome"
)

// NotificationRecord is the durable log entry for a single notification
// delivered (or scheduled for delivery) to a single user. It backs the
// in-app notification history as well as delivery auditing.
//
// A record whose ScheduledFor is in the future exists in the database but
// is not surfaced to the user until the wall clock passes it. Readers must
// filter on scheduled_for rather than rely on a state column.
type NotificationRecord struct {
	ID           string           `gorm:"primary_key" json:"id"`
	UserID       string           `gorm:"index" json:"userID"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	ClassID      string           `gorm:"index" json:"classID,omitempty"`
	ScheduledFor time.Time        `json:"scheduledFor"`
	IsRead       bool             `json:"read"`
	Metadata     json.RawMessage  `json:"metadata,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// NewNotificationRecord builds a record for the given user with a fresh
// random ID. The metadata is serialized as JSON. A zero scheduledFor means
// the record is due immediately and will be stamped with the current time.
func NewNotificationRecord(userID string, typ NotificationType, title, message string, scheduledFor time.Time, metadata interface{}) (*NotificationRecord, error) {
	var serialized json.RawMessage
	if metadata != nil {
		out, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		serialized = out
	}

	if scheduledFor.IsZero() {
		scheduledFor = time.Now()
	}

	return &NotificationRecord{
		ID:           newNotificationID(),
		UserID:       userID,
		Type:         typ,
		Title:        title,
		Message:      message,
		ScheduledFor: scheduledFor,
		Metadata:     serialized,
	}, nil
}

// Due returns whether the record should be visible at the given time.
func (n *NotificationRecord) Due(now time.Time) bool {
	return !n.ScheduledFor.After(now)
}

func newNotificationID() string {
	r := make([]byte, 20)
	rand.Read(r)
	return hex.EncodeToString(r)
}
