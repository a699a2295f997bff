package notifications

import (
	"time"

	"github.com/abihavaraj/animo-sub007/events"
)

const (
	// reminderSweepInterval is how often due reminders are pushed out.
	reminderSweepInterval = time.Minute

	// expirySweepInterval is how often expiring subscriptions are
	// checked for.
	expirySweepInterval = 12 * time.Hour
)

// Notifier consumes domain events from the bus and hands them to the
// dispatcher. It also drives the periodic sweeps for due reminders and
// expiring subscriptions.
type Notifier struct {
	dispatcher *Dispatcher
	bus        events.Bus
	shutdown   chan struct{}
}

// NewNotifier returns a new notifier.
func NewNotifier(bus events.Bus, dispatcher *Dispatcher) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		bus:        bus,
		shutdown:   make(chan struct{}),
	}
}

// Start runs the notifier's event loop. This should use its own
// goroutine.
func (n *Notifier) Start() {
	studioEvents := []interface{}{
		&events.ClassCancelled{},
		&events.InstructorChanged{},
		&events.ClassRescheduled{},
		&events.ClassFull{},
		&events.WaitlistPromoted{},
		&events.SubscriptionExpiring{},
		&events.SubscriptionChanged{},
		&events.Welcome{},
	}

	sub, err := n.bus.Subscribe(studioEvents)
	if err != nil {
		log.Errorf("Error subscribing to events: %s", err)
		return
	}
	defer sub.Close()

	reminderTicker := time.NewTicker(reminderSweepInterval)
	defer reminderTicker.Stop()
	expiryTicker := time.NewTicker(expirySweepInterval)
	defer expiryTicker.Stop()

	lastSweep := time.Now()

	n.bus.Emit(&events.NotifierStarted{})

	for {
		select {
		case event := <-sub.Out():
			studioEvent, ok := event.(events.StudioEvent)
			if !ok {
				continue
			}
			result, err := n.dispatcher.Notify(studioEvent)
			if err != nil {
				log.Errorf("Error dispatching %s notification: %s", studioEvent.NotificationType(), err)
				continue
			}
			if result.Failed > 0 {
				log.Warningf("Dispatched %s notification: %d created, %d failed",
					studioEvent.NotificationType(), result.Created, result.Failed)
			}
		case t := <-reminderTicker.C:
			if _, err := n.dispatcher.DispatchDueReminders(lastSweep); err != nil {
				log.Errorf("Error dispatching due reminders: %s", err)
			}
			lastSweep = t
		case <-expiryTicker.C:
			if _, err := n.dispatcher.NotifyExpiringSubscriptions(); err != nil {
				log.Errorf("Error notifying expiring subscriptions: %s", err)
			}
		case <-n.shutdown:
			return
		}
	}
}

// Stop shuts down the notifier.
func (n *Notifier) Stop() {
	close(n.shutdown)
}
