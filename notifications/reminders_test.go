package notifications

import (
	"testing"
	"time"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/models/factory"
	"github.com/jinzhu/gorm"
)

func reminderRecords(t *testing.T, d *Dispatcher, classID string) []models.NotificationRecord {
	var records []models.NotificationRecord
	err := d.db.View(func(tx *gorm.DB) error {
		return tx.Where("class_id = ? AND type = ?", classID, models.NotificationReminder).Find(&records).Error
	})
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestScheduleClassReminders(t *testing.T) {
	d, teardown := newTestDispatcher(t)
	defer teardown()

	base := time.Date(2023, 4, 5, 7, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	class := factory.NewClass()
	class.StartTime = base.Add(3 * time.Hour)

	// user1 takes the default 60 minute lead, user2 wants 2 hours,
	// user3 has reminders switched off entirely.
	user1, user2, user3 := factory.NewUser(), factory.NewUser(), factory.NewUser()
	user2Prefs := models.DefaultNotificationPreferences(user2.ID)
	user2Prefs.DefaultReminderMinutes = 120
	user3Prefs := models.DefaultNotificationPreferences(user3.ID)
	user3Prefs.GeneralReminders = false

	saveAll(t, d.db,
		user1, user2, user3, class,
		factory.NewBooking(class.ID, user1.ID),
		factory.NewBooking(class.ID, user2.ID),
		factory.NewBooking(class.ID, user3.ID),
		user2Prefs, user3Prefs,
	)

	created, err := d.ScheduleClassReminders(class)
	if err != nil {
		t.Fatal(err)
	}
	if created != 2 {
		t.Errorf("Expected 2 reminders created, got %d", created)
	}

	records := reminderRecords(t, d, class.ID)
	if len(records) != 2 {
		t.Fatalf("Expected 2 reminder records, got %d", len(records))
	}
	for _, rec := range records {
		var expected time.Time
		switch rec.UserID {
		case user1.ID:
			expected = class.StartTime.Add(-60 * time.Minute)
		case user2.ID:
			expected = class.StartTime.Add(-120 * time.Minute)
		default:
			t.Fatalf("Unexpected reminder for user %s", rec.UserID)
		}
		if !rec.ScheduledFor.Equal(expected) {
			t.Errorf("Expected reminder for user %s at %s, got %s", rec.UserID, expected, rec.ScheduledFor)
		}
	}
}

func TestScheduleClassRemindersInsideLeadWindow(t *testing.T) {
	d, teardown := newTestDispatcher(t)
	defer teardown()

	base := time.Date(2023, 4, 5, 7, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	// Class starts in 30 minutes, inside the 60 minute default lead.
	class := factory.NewClass()
	class.StartTime = base.Add(30 * time.Minute)

	user := factory.NewUser()
	saveAll(t, d.db, user, class, factory.NewBooking(class.ID, user.ID))

	created, err := d.ScheduleClassReminders(class)
	if err != nil {
		t.Fatal(err)
	}
	if created != 0 {
		t.Errorf("Expected no reminders inside the lead window, got %d", created)
	}
}

func TestCancelClassCleansUpReminders(t *testing.T) {
	d, teardown := newTestDispatcher(t)
	defer teardown()

	base := time.Date(2023, 4, 5, 7, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	class := factory.NewClass()
	class.StartTime = base.Add(3 * time.Hour)
	user := factory.NewUser()
	saveAll(t, d.db, user, class, factory.NewBooking(class.ID, user.ID))

	if _, err := d.ScheduleClassReminders(class); err != nil {
		t.Fatal(err)
	}
	if len(reminderRecords(t, d, class.ID)) != 1 {
		t.Fatal("Expected a scheduled reminder before cancellation")
	}

	result, err := d.CancelClass(class, "instructor sick")
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 {
		t.Errorf("Expected 1 cancellation notice, got %d", result.Created)
	}

	if len(reminderRecords(t, d, class.ID)) != 0 {
		t.Error("Expected reminders deleted on cancellation")
	}

	records, err := d.GetUserNotifications(user.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Type != models.NotificationCancellation {
		t.Errorf("Expected a single cancellation record, got %v", records)
	}
}

func TestRescheduleClassRecomputesReminders(t *testing.T) {
	d, teardown := newTestDispatcher(t)
	defer teardown()

	base := time.Date(2023, 4, 5, 7, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	class := factory.NewClass()
	class.StartTime = base.Add(3 * time.Hour)
	user := factory.NewUser()
	saveAll(t, d.db, user, class, factory.NewBooking(class.ID, user.ID))

	if _, err := d.ScheduleClassReminders(class); err != nil {
		t.Fatal(err)
	}

	oldStart := class.StartTime
	class.StartTime = base.Add(6 * time.Hour)
	result, err := d.RescheduleClass(class, oldStart)
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 {
		t.Errorf("Expected 1 reschedule notice, got %d", result.Created)
	}

	records := reminderRecords(t, d, class.ID)
	if len(records) != 1 {
		t.Fatalf("Expected exactly 1 reminder after reschedule, got %d", len(records))
	}
	expected := class.StartTime.Add(-60 * time.Minute)
	if !records[0].ScheduledFor.Equal(expected) {
		t.Errorf("Expected reminder recomputed to %s, got %s", expected, records[0].ScheduledFor)
	}
}

func TestNotifyExpiringSubscriptions(t *testing.T) {
	d, teardown := newTestDispatcher(t)
	defer teardown()

	base := time.Date(2023, 4, 5, 7, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	expiring, distant, expired := factory.NewUser(), factory.NewUser(), factory.NewUser()

	subExpiring := factory.NewSubscription(expiring.ID)
	subExpiring.EndDate = base.Add(3 * 24 * time.Hour)
	subDistant := factory.NewSubscription(distant.ID)
	subDistant.EndDate = base.Add(30 * 24 * time.Hour)
	subExpired := factory.NewSubscription(expired.ID)
	subExpired.EndDate = base.Add(3 * 24 * time.Hour)
	subExpired.Status = models.SubscriptionExpired

	saveAll(t, d.db, expiring, distant, expired, subExpiring, subDistant, subExpired)

	result, err := d.NotifyExpiringSubscriptions()
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 {
		t.Errorf("Expected 1 expiry notice, got %d", result.Created)
	}

	records, err := d.GetUserNotifications(expiring.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Type != models.NotificationSubscriptionExpiring {
		t.Fatalf("Expected one expiring record, got %v", records)
	}

	// Sweeping again inside the window does not duplicate the notice.
	result, err = d.NotifyExpiringSubscriptions()
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 0 {
		t.Errorf("Expected no new notices on repeat sweep, got %d", result.Created)
	}
}

func TestDispatchDueReminders(t *testing.T) {
	d, teardown := newTestDispatcher(t)
	defer teardown()

	base := time.Date(2023, 4, 5, 7, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	class := factory.NewClass()
	class.StartTime = base.Add(90 * time.Minute)
	user := factory.NewUser()
	saveAll(t, d.db, user, class, factory.NewBooking(class.ID, user.ID), factory.NewPushToken(user.ID))

	if _, err := d.ScheduleClassReminders(class); err != nil {
		t.Fatal(err)
	}

	var streamed int
	d.notifyFunc = func(interface{}) error {
		streamed++
		return nil
	}

	// Reminder is due at base+30m. Before then, nothing to push.
	pushed, err := d.DispatchDueReminders(base.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if pushed != 0 {
		t.Errorf("Expected nothing pushed before the scheduled time, got %d", pushed)
	}

	d.now = func() time.Time { return base.Add(time.Hour) }
	pushed, err = d.DispatchDueReminders(base)
	if err != nil {
		t.Fatal(err)
	}
	if pushed != 1 {
		t.Errorf("Expected 1 reminder pushed, got %d", pushed)
	}
	if streamed != 1 {
		t.Errorf("Expected 1 reminder streamed, got %d", streamed)
	}

	// A sweep from the new checkpoint finds nothing further.
	pushed, err = d.DispatchDueReminders(base.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if pushed != 0 {
		t.Errorf("Expected nothing pushed on repeat sweep, got %d", pushed)
	}

	// The record itself is untouched by delivery.
	records, err := d.GetUserNotifications(user.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].IsRead {
		t.Errorf("Expected one unread reminder record, got %v", records)
	}
}
