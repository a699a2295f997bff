package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/abihavaraj/animo-sub007/notifications"
	"github.com/gorilla/mux"
)

func (g *Gateway) handleGETNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			http.Error(w, wrapError(err), http.StatusBadRequest)
			return
		}
	}

	records, err := g.node.GetUserNotifications(userID, limit)
	if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, records)
}

func (g *Gateway) handleGETUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	count, err := g.node.UnreadCount(userID)
	if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, struct {
		Unread int `json:"unread"`
	}{count})
}

func (g *Gateway) handlePOSTMarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notificationID"]

	err := g.node.MarkNotificationRead(notificationID)
	if errors.Is(err, notifications.ErrNotFound) {
		http.Error(w, wrapError(err), http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, struct{}{})
}

func (g *Gateway) handlePOSTMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	if err := g.node.MarkAllNotificationsRead(userID); err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, struct{}{})
}

type broadcastRequest struct {
	Tokens []string `json:"tokens"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
}

func (g *Gateway) handlePOSTBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	result := g.node.Broadcast(req.Tokens, req.Title, req.Body)
	sanitizedJSONResponse(w, struct {
		Success bool `json:"success"`
		notifications.DeliveryResult
	}{result.Ok(), result})
}
