package models

// NotificationPreferences are the per-user notification settings. They are
// created lazily: a user without a row is treated as having the defaults
// returned by DefaultNotificationPreferences so a missing row never blocks
// a send.
type NotificationPreferences struct {
	UserID                   string `gorm:"primary_key" json:"userID"`
	EnableNotifications      bool   `json:"enableNotifications"`
	EnablePushNotifications  bool   `json:"enablePushNotifications"`
	EnableEmailNotifications bool   `json:"enableEmailNotifications"`
	ClassFullAlerts          bool   `json:"classFullAlerts"`
	NewEnrollmentAlerts      bool   `json:"newEnrollmentAlerts"`
	CancellationAlerts       bool   `json:"cancellationAlerts"`
	GeneralReminders         bool   `json:"generalReminders"`
	DefaultReminderMinutes   int    `json:"defaultReminderMinutes"`
}

// DefaultReminderLeadMinutes is how far ahead of a class start a reminder
// is scheduled when the user has not chosen a lead time.
const DefaultReminderLeadMinutes = 60

// DefaultNotificationPreferences returns the fail-open defaults used
// whenever a preference lookup misses or errors. Every call site that
// synthesizes defaults must go through this function.
func DefaultNotificationPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:                   userID,
		EnableNotifications:      true,
		EnablePushNotifications:  true,
		EnableEmailNotifications: true,
		ClassFullAlerts:          true,
		NewEnrollmentAlerts:      true,
		CancellationAlerts:       true,
		GeneralReminders:         true,
		DefaultReminderMinutes:   DefaultReminderLeadMinutes,
	}
}

// Allows reports whether notifications of the given type may be sent to
// the user under these preferences. The master switch and the push switch
// gate everything; the per-category toggles gate their own types.
func (p *NotificationPreferences) Allows(typ NotificationType) bool {
	if !p.EnableNotifications || !p.EnablePushNotifications {
		return false
	}
	switch typ {
	case NotificationClassFull:
		return p.ClassFullAlerts
	case NotificationWaitlistPromotion:
		return p.NewEnrollmentAlerts
	case NotificationCancellation, NotificationUpdate:
		return p.CancellationAlerts
	case NotificationReminder, NotificationSubscriptionExpiring, NotificationSubscriptionChanged:
		return p.GeneralReminders
	case NotificationWelcome:
		return true
	}
	return true
}

// ReminderLeadMinutes returns the user's reminder lead time, falling back
// to the default when unset or nonsensical.
func (p *NotificationPreferences) ReminderLeadMinutes() int {
	if p.DefaultReminderMinutes <= 0 {
		return DefaultReminderLeadMinutes
	}
	return p.DefaultReminderMinutes
}
