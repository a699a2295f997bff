package notifications

import (
	"fmt"

	"github.com/abihavaraj/animo-sub007/events"
)

// DefaultLocale is used whenever a user's locale is unknown or a string
// is missing from their locale's table.
const DefaultLocale = "en"

var localeTables = map[string]map[string]string{
	"en": {
		"cancellation.title":  "Class Cancelled",
		"cancellation.body":   "%s on %s at %s has been cancelled.",
		"cancellation.reason": " Reason: %s",
		"instructor.title":    "Instructor Change",
		"instructor.body":     "%s on %s at %s will be taught by %s instead of %s.",
		"reschedule.title":    "Class Rescheduled",
		"reschedule.body":     "%s has moved from %s %s to %s %s.",
		"classfull.title":     "Class Full",
		"classfull.body":      "%s on %s at %s is now fully booked.",
		"waitlist.title":      "You're In!",
		"waitlist.body":       "A spot opened up in %s on %s at %s. Your booking is confirmed.",
		"reminder.title":      "Upcoming Class",
		"reminder.body":       "%s starts at %s on %s. See you at the studio!",
		"subexpiring.title":   "Subscription Expiring",
		"subexpiring.body":    "Your %s plan expires on %s (%d days left).",
		"subchanged.title":    "Subscription Updated",
		"subchanged.body":     "Your plan changed from %s to %s.",
		"welcome.title":       "Welcome to Animo!",
		"welcome.body":        "Hi %s, welcome to the studio. Book your first class from the schedule.",
	},
	"sq": {
		"cancellation.title":  "Klasa u anulua",
		"cancellation.body":   "%s më %s në orën %s është anuluar.",
		"cancellation.reason": " Arsyeja: %s",
		"instructor.title":    "Ndryshim instruktori",
		"instructor.body":     "%s më %s në orën %s do të udhëhiqet nga %s në vend të %s.",
		"reschedule.title":    "Klasa u zhvendos",
		"reschedule.body":     "%s u zhvendos nga %s %s në %s %s.",
		"classfull.title":     "Klasa është plot",
		"classfull.body":      "%s më %s në orën %s është mbushur plotësisht.",
		"waitlist.title":      "Vend i lirë!",
		"waitlist.body":       "U hap një vend në %s më %s në orën %s. Rezervimi juaj u konfirmua.",
		"reminder.title":      "Klasë së shpejti",
		"reminder.body":       "%s fillon në orën %s më %s. Shihemi në studio!",
		"subexpiring.title":   "Abonimi po skadon",
		"subexpiring.body":    "Plani juaj %s skadon më %s (%d ditë të mbetura).",
		"subchanged.title":    "Abonimi u përditësua",
		"subchanged.body":     "Plani juaj ndryshoi nga %s në %s.",
		"welcome.title":       "Mirë se vini në Animo!",
		"welcome.body":        "Përshëndetje %s, mirë se vini në studio. Rezervoni klasën tuaj të parë nga orari.",
	},
}

// lookup returns the string for key in the given locale, degrading to the
// default locale when the locale or the key is missing. It never fails.
func lookup(locale, key string) string {
	if table, ok := localeTables[locale]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	return localeTables[DefaultLocale][key]
}

// Render maps a domain event and a target locale to a notification title
// and message. It is deterministic for a given (event, locale) pair and
// never errors; unknown locales render in the default locale.
func Render(event events.StudioEvent, locale string) (title, message string) {
	switch e := event.(type) {
	case *events.ClassCancelled:
		title = lookup(locale, "cancellation.title")
		message = fmt.Sprintf(lookup(locale, "cancellation.body"), e.ClassName, e.Date, e.Time)
		if e.Reason != "" {
			message += fmt.Sprintf(lookup(locale, "cancellation.reason"), e.Reason)
		}
	case *events.InstructorChanged:
		title = lookup(locale, "instructor.title")
		message = fmt.Sprintf(lookup(locale, "instructor.body"), e.ClassName, e.Date, e.Time, e.NewInstructor, e.OldInstructor)
	case *events.ClassRescheduled:
		title = lookup(locale, "reschedule.title")
		message = fmt.Sprintf(lookup(locale, "reschedule.body"), e.ClassName, e.OldDate, e.OldTime, e.NewDate, e.NewTime)
	case *events.ClassFull:
		title = lookup(locale, "classfull.title")
		message = fmt.Sprintf(lookup(locale, "classfull.body"), e.ClassName, e.Date, e.Time)
	case *events.WaitlistPromoted:
		title = lookup(locale, "waitlist.title")
		message = fmt.Sprintf(lookup(locale, "waitlist.body"), e.ClassName, e.Date, e.Time)
	case *events.ClassReminder:
		title = lookup(locale, "reminder.title")
		message = fmt.Sprintf(lookup(locale, "reminder.body"), e.ClassName, e.Time, e.Date)
	case *events.SubscriptionExpiring:
		title = lookup(locale, "subexpiring.title")
		message = fmt.Sprintf(lookup(locale, "subexpiring.body"), e.PlanName, e.EndDate, e.DaysLeft)
	case *events.SubscriptionChanged:
		title = lookup(locale, "subchanged.title")
		message = fmt.Sprintf(lookup(locale, "subchanged.body"), e.OldPlan, e.NewPlan)
	case *events.Welcome:
		title = lookup(locale, "welcome.title")
		message = fmt.Sprintf(lookup(locale, "welcome.body"), e.FirstName)
	default:
		title = "Animo"
		message = "You have a new notification."
	}
	return title, message
}
