package httpapi

import (
	"encoding/json"
	"net/http"
)

// handlePushRegister registers a supervisor device push token for tone
// alerts.
func (r *Router) handlePushRegister(w http.ResponseWriter, req *http.Request) {
	if r.store == nil {
		http.Error(w, `{"error": "persistence is not configured"}`, http.StatusServiceUnavailable)
		return
	}

	var body struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}

	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	if body.Token == "" {
		http.Error(w, `{"error": "token is required"}`, http.StatusBadRequest)
		return
	}

	if body.Platform != "ios" && body.Platform != "android" {
		http.Error(w, `{"error": "platform must be 'ios' or 'android'"}`, http.StatusBadRequest)
		return
	}

	if err := r.store.RegisterPushToken(req.Context(), body.Token, body.Platform); err != nil {
		r.logger.Printf("push: failed to register token: %v", err)
		http.Error(w, `{"error": "failed to register token"}`, http.StatusInternalServerError)
		return
	}

	r.logger.Printf("push: registered %s supervisor token", body.Platform)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handlePushUnregister removes a supervisor device push token.
func (r *Router) handlePushUnregister(w http.ResponseWriter, req *http.Request) {
	if r.store == nil {
		http.Error(w, `{"error": "persistence is not configured"}`, http.StatusServiceUnavailable)
		return
	}

	var body struct {
		Token string `json:"token"`
	}

	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	if body.Token == "" {
		http.Error(w, `{"error": "token is required"}`, http.StatusBadRequest)
		return
	}

	if err := r.store.UnregisterPushToken(req.Context(), body.Token); err != nil {
		r.logger.Printf("push: failed to unregister token: %v", err)
		http.Error(w, `{"error": "failed to unregister token"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
