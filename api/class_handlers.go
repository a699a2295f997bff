package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abihavaraj/animo-sub007/events"
	"github.com/abihavaraj/animo-sub007/models"
)

type cancelClassRequest struct {
	Class  models.StudioClass `json:"class"`
	Reason string             `json:"reason,omitempty"`
}

// handlePOSTCancelClass runs the full cancellation path: stale reminder
// cleanup plus cancellation notices to every confirmed booking. The
// admin action succeeds even when some deliveries fail; the counts are
// informational.
func (g *Gateway) handlePOSTCancelClass(w http.ResponseWriter, r *http.Request) {
	var req cancelClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	result, err := g.node.CancelClass(&req.Class, req.Reason)
	if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, result)
}

type rescheduleClassRequest struct {
	Class    models.StudioClass `json:"class"`
	OldStart time.Time          `json:"oldStart"`
}

func (g *Gateway) handlePOSTRescheduleClass(w http.ResponseWriter, r *http.Request) {
	var req rescheduleClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	result, err := g.node.RescheduleClass(&req.Class, req.OldStart)
	if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, result)
}

func (g *Gateway) handlePOSTScheduleReminders(w http.ResponseWriter, r *http.Request) {
	var class models.StudioClass
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	created, err := g.node.ScheduleClassReminders(&class)
	if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, struct {
		Created int `json:"created"`
	}{created})
}

type eventRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// handlePOSTEvent accepts a domain event from the admin or client apps
// and emits it onto the bus. Dispatch is asynchronous; the caller gets
// an immediate success since notification delivery is a best-effort
// side effect of the triggering action.
func (g *Gateway) handlePOSTEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	var event interface{}
	switch models.NotificationType(req.Type) {
	case models.NotificationClassFull:
		event = &events.ClassFull{}
	case models.NotificationWaitlistPromotion:
		event = &events.WaitlistPromoted{}
	case models.NotificationUpdate:
		event = &events.InstructorChanged{}
	case models.NotificationSubscriptionChanged:
		event = &events.SubscriptionChanged{}
	case models.NotificationWelcome:
		event = &events.Welcome{}
	default:
		http.Error(w, wrapError(fmt.Errorf("unknown event type: %s", req.Type)), http.StatusBadRequest)
		return
	}

	if err := json.Unmarshal(req.Payload, event); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	g.node.EmitEvent(event)
	sanitizedJSONResponse(w, struct{}{})
}

func (g *Gateway) handlePOSTExpiringSweep(w http.ResponseWriter, r *http.Request) {
	result, err := g.node.NotifyExpiringSubscriptions()
	if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, result)
}
