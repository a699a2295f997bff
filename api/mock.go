package api

import (
	"time"

	"github.com/abihavaraj/animo-sub007/events"
	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/notifications"
)

type mockNode struct {
	notifyFunc                      func(event events.StudioEvent, targetIDs ...string) (notifications.Result, error)
	emitEventFunc                   func(event interface{})
	subscribeEventFunc              func(event interface{}) (events.Subscription, error)
	getUserNotificationsFunc        func(userID string, limit int) ([]models.NotificationRecord, error)
	unreadCountFunc                 func(userID string) (int, error)
	markNotificationReadFunc        func(notificationID string) error
	markAllNotificationsReadFunc    func(userID string) error
	getPreferencesFunc              func(userID string) (*models.NotificationPreferences, error)
	savePreferencesFunc             func(prefs *models.NotificationPreferences) error
	registerPushTokenFunc           func(token *models.PushToken) error
	removePushTokenFunc             func(token string) error
	cancelClassFunc                 func(class *models.StudioClass, reason string) (notifications.Result, error)
	rescheduleClassFunc             func(class *models.StudioClass, oldStart time.Time) (notifications.Result, error)
	scheduleClassRemindersFunc      func(class *models.StudioClass) (int, error)
	notifyExpiringSubscriptionsFunc func() (notifications.Result, error)
	broadcastFunc                   func(tokens []string, title, body string) notifications.DeliveryResult
}

func (m *mockNode) Notify(event events.StudioEvent, targetIDs ...string) (notifications.Result, error) {
	return m.notifyFunc(event, targetIDs...)
}
func (m *mockNode) EmitEvent(event interface{}) {
	m.emitEventFunc(event)
}
func (m *mockNode) SubscribeEvent(event interface{}) (events.Subscription, error) {
	return m.subscribeEventFunc(event)
}
func (m *mockNode) GetUserNotifications(userID string, limit int) ([]models.NotificationRecord, error) {
	return m.getUserNotificationsFunc(userID, limit)
}
func (m *mockNode) UnreadCount(userID string) (int, error) {
	return m.unreadCountFunc(userID)
}
func (m *mockNode) MarkNotificationRead(notificationID string) error {
	return m.markNotificationReadFunc(notificationID)
}
func (m *mockNode) MarkAllNotificationsRead(userID string) error {
	return m.markAllNotificationsReadFunc(userID)
}
func (m *mockNode) GetPreferences(userID string) (*models.NotificationPreferences, error) {
	return m.getPreferencesFunc(userID)
}
func (m *mockNode) SavePreferences(prefs *models.NotificationPreferences) error {
	return m.savePreferencesFunc(prefs)
}
func (m *mockNode) RegisterPushToken(token *models.PushToken) error {
	return m.registerPushTokenFunc(token)
}
func (m *mockNode) RemovePushToken(token string) error {
	return m.removePushTokenFunc(token)
}
func (m *mockNode) CancelClass(class *models.StudioClass, reason string) (notifications.Result, error) {
	return m.cancelClassFunc(class, reason)
}
func (m *mockNode) RescheduleClass(class *models.StudioClass, oldStart time.Time) (notifications.Result, error) {
	return m.rescheduleClassFunc(class, oldStart)
}
func (m *mockNode) ScheduleClassReminders(class *models.StudioClass) (int, error) {
	return m.scheduleClassRemindersFunc(class)
}
func (m *mockNode) NotifyExpiringSubscriptions() (notifications.Result, error) {
	return m.notifyExpiringSubscriptionsFunc()
}
func (m *mockNode) Broadcast(tokens []string, title, body string) notifications.DeliveryResult {
	return m.broadcastFunc(tokens, title, body)
}
