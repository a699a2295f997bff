package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/notifications"
	"github.com/gorilla/mux"
)

func (g *Gateway) handleGETPreferences(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	prefs, err := g.node.GetPreferences(userID)
	if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, prefs)
}

func (g *Gateway) handlePUTPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.NotificationPreferences

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&prefs); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	err := g.node.SavePreferences(&prefs)
	if errors.Is(err, notifications.ErrBadRequest) {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	} else if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, struct{}{})
}
