package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/notifications"
	"github.com/gorilla/mux"
)

func (g *Gateway) handlePOSTPushToken(w http.ResponseWriter, r *http.Request) {
	var token models.PushToken

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&token); err != nil {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	}

	err := g.node.RegisterPushToken(&token)
	if errors.Is(err, notifications.ErrBadRequest) {
		http.Error(w, wrapError(err), http.StatusBadRequest)
		return
	} else if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, struct{}{})
}

func (g *Gateway) handleDELETEPushToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	err := g.node.RemovePushToken(token)
	if errors.Is(err, notifications.ErrNotFound) {
		http.Error(w, wrapError(err), http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, wrapError(err), http.StatusInternalServerError)
		return
	}
	sanitizedJSONResponse(w, struct{}{})
}
