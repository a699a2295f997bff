package notifications

import (
	"time"

	"github.com/abihavaraj/animo-sub007/events"
	"github.com/abihavaraj/animo-sub007/models"
	"github.com/jinzhu/gorm"
)

const (
	classDateFormat = "Jan 2, 2006"
	classTimeFormat = "3:04 PM"

	// expiryWarningWindow is how far ahead of a subscription's end date
	// the expiring notification fires.
	expiryWarningWindow = 7 * 24 * time.Hour
)

func reminderEvent(class *models.StudioClass) *events.ClassReminder {
	return &events.ClassReminder{
		ClassID:   class.ID,
		ClassName: class.Name,
		Date:      class.StartTime.Format(classDateFormat),
		Time:      class.StartTime.Format(classTimeFormat),
	}
}

// ScheduleClassReminders creates one future-dated reminder record per
// confirmed booking on the class, scheduled at the class start minus
// each user's reminder lead time. The scheduled time is computed once,
// here; a later class change does not silently recompute it (see
// RescheduleClassReminders). Returns the number of reminders created.
func (d *Dispatcher) ScheduleClassReminders(class *models.StudioClass) (int, error) {
	userIDs, err := d.confirmedBookingUserIDs(class.ID)
	if err != nil {
		return 0, err
	}

	event := reminderEvent(class)
	created := 0
	for _, userID := range userIDs {
		prefs := d.loadPreferences(userID)
		if !prefs.Allows(models.NotificationReminder) {
			continue
		}

		scheduledFor := class.StartTime.Add(-time.Duration(prefs.ReminderLeadMinutes()) * time.Minute)
		if scheduledFor.Before(d.now()) {
			// Class starts inside the lead window; no point reminding.
			continue
		}

		title, message := Render(event, d.userLocale(userID))
		rec, err := models.NewNotificationRecord(userID, models.NotificationReminder, title, message, scheduledFor, event)
		if err != nil {
			log.Errorf("Error building reminder for user %s: %s", userID, err)
			continue
		}
		rec.ClassID = class.ID

		if err := d.saveRecord(rec); err != nil {
			log.Errorf("Error saving reminder for user %s: %s", userID, err)
			continue
		}
		created++
	}
	return created, nil
}

// CancelClassNotifications deletes the reminder records tied to the
// class. This is the only deletion path for notification records; it
// runs when the class itself is cancelled.
func (d *Dispatcher) CancelClassNotifications(classID string) error {
	return d.db.Update(func(tx *gorm.DB) error {
		return tx.Where("class_id = ? AND type = ?", classID, models.NotificationReminder).
			Delete(&models.NotificationRecord{}).Error
	})
}

// RescheduleClassReminders deletes the not-yet-due reminders for the
// class and recreates them from the new start time. Reminders already
// surfaced to users are left alone.
func (d *Dispatcher) RescheduleClassReminders(class *models.StudioClass) (int, error) {
	err := d.db.Update(func(tx *gorm.DB) error {
		return tx.Where("class_id = ? AND type = ? AND scheduled_for > ?", class.ID, models.NotificationReminder, d.now()).
			Delete(&models.NotificationRecord{}).Error
	})
	if err != nil {
		return 0, err
	}
	return d.ScheduleClassReminders(class)
}

// CancelClass is the full cancellation path: reminder cleanup first,
// then cancellation notifications to every confirmed booking.
func (d *Dispatcher) CancelClass(class *models.StudioClass, reason string) (Result, error) {
	if err := d.CancelClassNotifications(class.ID); err != nil {
		log.Errorf("Error cleaning up reminders for class %s: %s", class.ID, err)
	}
	return d.Notify(&events.ClassCancelled{
		ClassID:   class.ID,
		ClassName: class.Name,
		Date:      class.StartTime.Format(classDateFormat),
		Time:      class.StartTime.Format(classTimeFormat),
		Reason:    reason,
	})
}

// RescheduleClass is the full reschedule path: reminders recomputed from
// the new start time, then update notifications to confirmed bookings.
func (d *Dispatcher) RescheduleClass(class *models.StudioClass, oldStart time.Time) (Result, error) {
	if _, err := d.RescheduleClassReminders(class); err != nil {
		log.Errorf("Error recomputing reminders for class %s: %s", class.ID, err)
	}
	return d.Notify(&events.ClassRescheduled{
		ClassID:   class.ID,
		ClassName: class.Name,
		OldDate:   oldStart.Format(classDateFormat),
		OldTime:   oldStart.Format(classTimeFormat),
		NewDate:   class.StartTime.Format(classDateFormat),
		NewTime:   class.StartTime.Format(classTimeFormat),
	})
}

// NotifyExpiringSubscriptions finds active subscriptions ending inside
// the warning window and notifies their owners. A user already holding
// an expiring notification created inside the window is not notified
// again, keeping one record per (recipient, expiry).
func (d *Dispatcher) NotifyExpiringSubscriptions() (Result, error) {
	var result Result

	var subs []models.UserSubscription
	err := d.db.View(func(tx *gorm.DB) error {
		now := d.now()
		return tx.Where("status = ? AND end_date > ? AND end_date <= ?", models.SubscriptionActive, now, now.Add(expiryWarningWindow)).
			Find(&subs).Error
	})
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return result, err
	}

	for _, sub := range subs {
		already, err := d.hasRecentRecord(sub.UserID, models.NotificationSubscriptionExpiring, expiryWarningWindow)
		if err != nil {
			log.Errorf("Error checking prior expiry notice for user %s: %s", sub.UserID, err)
			result.Failed++
			continue
		}
		if already {
			continue
		}

		daysLeft := int(sub.EndDate.Sub(d.now()).Hours() / 24)
		r, err := d.Notify(&events.SubscriptionExpiring{
			UserID:   sub.UserID,
			PlanName: sub.PlanName,
			EndDate:  sub.EndDate.Format(classDateFormat),
			DaysLeft: daysLeft,
		})
		if err != nil {
			result.Failed++
			continue
		}
		result.add(r)
	}
	return result, nil
}

func (d *Dispatcher) hasRecentRecord(userID string, typ models.NotificationType, window time.Duration) (bool, error) {
	var count int
	err := d.db.View(func(tx *gorm.DB) error {
		return tx.Model(&models.NotificationRecord{}).
			Where("user_id = ? AND type = ? AND created_at > ?", userID, typ, d.now().Add(-window)).
			Count(&count).Error
	})
	return count > 0, err
}

// DispatchDueReminders pushes reminder records that became due after
// since. Record visibility is computed at read time; this sweep only
// drives the push channel, it does not mutate records.
func (d *Dispatcher) DispatchDueReminders(since time.Time) (int, error) {
	var due []models.NotificationRecord
	err := d.db.View(func(tx *gorm.DB) error {
		return tx.Where("type = ? AND scheduled_for > ? AND scheduled_for <= ?", models.NotificationReminder, since, d.now()).
			Find(&due).Error
	})
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return 0, err
	}

	pushed := 0
	for _, rec := range due {
		dr := d.push.DeliverToUser(rec.UserID, rec.Title, rec.Message)
		if dr.Ok() {
			pushed++
		}
		if d.notifyFunc != nil {
			rec := rec
			if err := d.notifyFunc(notificationWrapper{&rec}); err != nil {
				log.Errorf("Error pushing reminder to websockets: %s", err)
			}
		}
	}
	return pushed, nil
}
