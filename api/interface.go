package api

import (
	"time"

	"github.com/abihavaraj/animo-sub007/events"
	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/notifications"
)

// StudioIface is the surface of the notification dispatcher consumed by
// the gateway. It exists so handlers can be tested against a mock.
type StudioIface interface {
	Notify(event events.StudioEvent, targetIDs ...string) (notifications.Result, error)
	EmitEvent(event interface{})
	SubscribeEvent(event interface{}) (events.Subscription, error)

	GetUserNotifications(userID string, limit int) ([]models.NotificationRecord, error)
	UnreadCount(userID string) (int, error)
	MarkNotificationRead(notificationID string) error
	MarkAllNotificationsRead(userID string) error

	GetPreferences(userID string) (*models.NotificationPreferences, error)
	SavePreferences(prefs *models.NotificationPreferences) error

	RegisterPushToken(token *models.PushToken) error
	RemovePushToken(token string) error

	CancelClass(class *models.StudioClass, reason string) (notifications.Result, error)
	RescheduleClass(class *models.StudioClass, oldStart time.Time) (notifications.Result, error)
	ScheduleClassReminders(class *models.StudioClass) (int, error)
	NotifyExpiringSubscriptions() (notifications.Result, error)

	Broadcast(tokens []string, title, body string) notifications.DeliveryResult
}
