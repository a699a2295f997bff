package notifications

import (
	"errors"
	"time"

	"github.com/abihavaraj/animo-sub007/events"
	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/repo"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/op/go-logging"
	pkgerrors "github.com/pkg/errors"
)

var log = logging.MustGetLogger("NOTIF")

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest is returned when input data fails validation.
	ErrBadRequest = errors.New("bad request")
)

// defaultHistoryLimit caps GetUserNotifications when no limit is given.
const defaultHistoryLimit = 50

// Result reports the aggregate outcome of a Notify call. Per-recipient
// failures are counted here, never escalated.
type Result struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

func (r *Result) add(other Result) {
	r.Created += other.Created
	r.Failed += other.Failed
}

type notificationWrapper struct {
	Notification *models.NotificationRecord `json:"notification"`
}

// Dispatcher turns domain events into persisted, delivered notifications.
// It owns target resolution, preference filtering, record persistence and
// push fan-out. Construct one with NewDispatcher and pass the handle to
// dependents; there is no package-level state to initialize.
type Dispatcher struct {
	db         repo.Database
	push       *PushClient
	bus        events.Bus
	notifyFunc func(interface{}) error

	now        func() time.Time
	saveRecord func(*models.NotificationRecord) error
}

// NewDispatcher returns a ready Dispatcher. notifyFunc, if non-nil, is
// invoked with every newly created record (the websocket stream); its
// errors are logged and otherwise ignored.
func NewDispatcher(db repo.Database, push *PushClient, bus events.Bus, notifyFunc func(interface{}) error) *Dispatcher {
	d := &Dispatcher{
		db:         db,
		push:       push,
		bus:        bus,
		notifyFunc: notifyFunc,
		now:        time.Now,
	}
	d.saveRecord = func(rec *models.NotificationRecord) error {
		return d.db.Update(func(tx *gorm.DB) error {
			return tx.Save(rec).Error
		})
	}
	return d
}

// SubscribeEvent subscribes to events of the given type on the bus.
func (d *Dispatcher) SubscribeEvent(event interface{}) (events.Subscription, error) {
	return d.bus.Subscribe(event)
}

// EmitEvent publishes a domain event onto the bus. Callers treat
// notification delivery as a best-effort side effect; the emit itself
// never fails.
func (d *Dispatcher) EmitEvent(event interface{}) {
	d.bus.Emit(event)
}

// Notify turns one domain event into zero or more notifications. When no
// explicit targets are given they are resolved from the domain object
// the event references. Each recipient is an isolated unit of work: a
// failure for one recipient is counted and the rest proceed. An empty
// target set is a no-op success. The only error returned is a total
// inability to resolve targets.
func (d *Dispatcher) Notify(event events.StudioEvent, targetIDs ...string) (Result, error) {
	var result Result

	targets := targetIDs
	if len(targets) == 0 {
		var err error
		targets, err = d.resolveTargets(event)
		if err != nil {
			return result, pkgerrors.Wrap(err, "error resolving notification targets")
		}
	}
	if len(targets) == 0 {
		return result, nil
	}

	typ := event.NotificationType()
	for _, userID := range targets {
		prefs := d.loadPreferences(userID)
		if !prefs.Allows(typ) {
			continue
		}

		title, message := Render(event, d.userLocale(userID))

		rec, err := models.NewNotificationRecord(userID, typ, title, message, d.now(), event)
		if err != nil {
			log.Errorf("Error building notification for user %s: %s", userID, err)
			result.Failed++
			continue
		}
		rec.ClassID = classIDOf(event)

		if err := d.saveRecord(rec); err != nil {
			log.Errorf("Error saving notification for user %s: %s", userID, err)
			result.Failed++
			continue
		}
		result.Created++

		dr := d.push.DeliverToUser(userID, title, message)
		if dr.PermanentFailures > 0 || dr.TransientFailures > 0 {
			log.Warningf("Push delivery for user %s: %d delivered, %d permanent failures, %d transient failures",
				userID, dr.Delivered, dr.PermanentFailures, dr.TransientFailures)
		}

		if d.notifyFunc != nil {
			if err := d.notifyFunc(notificationWrapper{rec}); err != nil {
				log.Errorf("Error pushing notification to websockets: %s", err)
			}
		}
	}

	return result, nil
}

// resolveTargets derives the recipient set from the domain object the
// event references.
func (d *Dispatcher) resolveTargets(event events.StudioEvent) ([]string, error) {
	switch e := event.(type) {
	case *events.ClassCancelled:
		return d.confirmedBookingUserIDs(e.ClassID)
	case *events.InstructorChanged:
		return d.confirmedBookingUserIDs(e.ClassID)
	case *events.ClassRescheduled:
		return d.confirmedBookingUserIDs(e.ClassID)
	case *events.ClassReminder:
		return d.confirmedBookingUserIDs(e.ClassID)
	case *events.ClassFull:
		if e.InstructorID == "" {
			return nil, nil
		}
		return []string{e.InstructorID}, nil
	case *events.WaitlistPromoted:
		return []string{e.UserID}, nil
	case *events.SubscriptionExpiring:
		return []string{e.UserID}, nil
	case *events.SubscriptionChanged:
		return []string{e.UserID}, nil
	case *events.Welcome:
		return []string{e.UserID}, nil
	}
	return nil, errors.New("unknown event type")
}

func classIDOf(event events.StudioEvent) string {
	switch e := event.(type) {
	case *events.ClassCancelled:
		return e.ClassID
	case *events.InstructorChanged:
		return e.ClassID
	case *events.ClassRescheduled:
		return e.ClassID
	case *events.ClassReminder:
		return e.ClassID
	case *events.ClassFull:
		return e.ClassID
	case *events.WaitlistPromoted:
		return e.ClassID
	}
	return ""
}

func (d *Dispatcher) confirmedBookingUserIDs(classID string) ([]string, error) {
	var userIDs []string
	err := d.db.View(func(tx *gorm.DB) error {
		var bookings []models.Booking
		if err := tx.Where("class_id = ? AND status = ?", classID, models.BookingConfirmed).Find(&bookings).Error; err != nil && !gorm.IsRecordNotFoundError(err) {
			return err
		}
		for _, b := range bookings {
			userIDs = append(userIDs, b.UserID)
		}
		return nil
	})
	return userIDs, err
}

// loadPreferences loads the user's notification preferences. A missing
// row or a read error yields the defaults: preference lookups fail open
// and never block a send.
func (d *Dispatcher) loadPreferences(userID string) *models.NotificationPreferences {
	var prefs models.NotificationPreferences
	err := d.db.View(func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).First(&prefs).Error
	})
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			log.Warningf("Error loading preferences for user %s, using defaults: %s", userID, err)
		}
		return models.DefaultNotificationPreferences(userID)
	}
	return &prefs
}

func (d *Dispatcher) userLocale(userID string) string {
	var user models.StudioUser
	err := d.db.View(func(tx *gorm.DB) error {
		return tx.Where("id = ?", userID).First(&user).Error
	})
	if err != nil || user.Locale == "" {
		return DefaultLocale
	}
	return user.Locale
}

// GetPreferences returns the user's stored preferences, synthesizing the
// defaults when no row exists.
func (d *Dispatcher) GetPreferences(userID string) (*models.NotificationPreferences, error) {
	return d.loadPreferences(userID), nil
}

// SavePreferences persists the user's preferences.
func (d *Dispatcher) SavePreferences(prefs *models.NotificationPreferences) error {
	if prefs.UserID == "" {
		return ErrBadRequest
	}
	return d.db.Update(func(tx *gorm.DB) error {
		return tx.Save(prefs).Error
	})
}

// GetUserNotifications returns the user's notification history, most
// recent first, excluding records whose scheduled time has not yet
// passed. A scheduled-but-undelivered reminder exists in the database
// but is not visible.
func (d *Dispatcher) GetUserNotifications(userID string, limit int) ([]models.NotificationRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var records []models.NotificationRecord
	err := d.db.View(func(tx *gorm.DB) error {
		return tx.Where("user_id = ? AND scheduled_for <= ?", userID, d.now()).
			Order("created_at desc").
			Limit(limit).
			Find(&records).Error
	})
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}
	return records, nil
}

// UnreadCount returns the number of visible unread notifications.
func (d *Dispatcher) UnreadCount(userID string) (int, error) {
	var count int
	err := d.db.View(func(tx *gorm.DB) error {
		return tx.Model(&models.NotificationRecord{}).
			Where("user_id = ? AND is_read = ? AND scheduled_for <= ?", userID, false, d.now()).
			Count(&count).Error
	})
	return count, err
}

// MarkNotificationRead flips the read flag on a single record.
func (d *Dispatcher) MarkNotificationRead(notificationID string) error {
	return d.db.Update(func(tx *gorm.DB) error {
		res := tx.Model(&models.NotificationRecord{}).Where("id = ?", notificationID).UpdateColumn("is_read", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MarkAllNotificationsRead flips the read flag on every one of the
// user's records. Other users' records are untouched.
func (d *Dispatcher) MarkAllNotificationsRead(userID string) error {
	return d.db.Update(func(tx *gorm.DB) error {
		return tx.Model(&models.NotificationRecord{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			UpdateColumn("is_read", true).Error
	})
}

// Broadcast sends the title/body pair to a pre-computed token list in
// gateway-sized batches. Used for "notify all instructors" style sends
// where preference filtering has already reduced the list.
func (d *Dispatcher) Broadcast(tokens []string, title, body string) DeliveryResult {
	return d.push.DeliverToMany(tokens, title, body)
}

// SetNotifyFunc installs the websocket stream callback. Used at startup
// once the gateway exists; not safe to call concurrently with Notify.
func (d *Dispatcher) SetNotifyFunc(fn func(interface{}) error) {
	d.notifyFunc = fn
}

// RegisterPushToken stores a device registration. Re-registering an
// existing token reactivates it in place rather than creating a
// duplicate row.
func (d *Dispatcher) RegisterPushToken(token *models.PushToken) error {
	if token.UserID == "" || !models.ValidPushTokenFormat(token.Token) {
		return ErrBadRequest
	}
	return d.db.Update(func(tx *gorm.DB) error {
		var existing models.PushToken
		err := tx.Where("token = ?", token.Token).First(&existing).Error
		if err != nil && !gorm.IsRecordNotFoundError(err) {
			return err
		}
		if err == nil {
			existing.UserID = token.UserID
			existing.DeviceType = token.DeviceType
			existing.DeviceName = token.DeviceName
			existing.IsActive = true
			return tx.Save(&existing).Error
		}
		if token.ID == "" {
			token.ID = uuid.NewString()
		}
		token.IsActive = true
		return tx.Save(token).Error
	})
}

// RemovePushToken deactivates a device registration. The row is kept so
// a re-registration of the same token cannot race a delete.
func (d *Dispatcher) RemovePushToken(token string) error {
	return d.db.Update(func(tx *gorm.DB) error {
		res := tx.Model(&models.PushToken{}).Where("token = ?", token).UpdateColumn("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
