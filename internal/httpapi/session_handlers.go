package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jprochazka/coach/internal/eventlog"
	"github.com/jprochazka/coach/internal/moderator"
	"github.com/jprochazka/coach/internal/realtime"
	"github.com/jprochazka/coach/internal/store"
)

type sessionCreateRequest struct {
	ParticipantName string `json:"participant_name"`
}

type sessionResponse struct {
	SessionID         string                    `json:"session_id"`
	ConversationToken string                    `json:"conversation_token"`
	Provider          string                    `json:"provider"`
	Model             string                    `json:"model"`
	WebRTCURL         string                    `json:"webrtc_url"`
	EphemeralKey      string                    `json:"ephemeral_key"`
	ExpiresAt         time.Time                 `json:"expires_at"`
	VoiceName         string                    `json:"voice_name"`
	Checklist         []moderator.ChecklistItem `json:"checklist"`
}

// handleCreateSession mints a realtime audio session and registers the
// session state the moderator endpoints key on.
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) {
	if r.sessions.IsDraining() {
		http.Error(w, `{"error": "server is shutting down"}`, http.StatusServiceUnavailable)
		return
	}

	// The body is optional; an empty body means no participant name.
	var body sessionCreateRequest
	_ = json.NewDecoder(req.Body).Decode(&body)

	instructions := r.prompts.SessionInstructions(body.ParticipantName)
	minted, err := r.realtime.MintSession(req.Context(), realtime.SessionConfig{
		Model:        r.cfg.RealtimeModel,
		Voice:        r.cfg.VoiceName,
		Instructions: instructions,
	})
	if err != nil {
		if errors.Is(err, realtime.ErrNotConfigured) {
			r.logger.Printf("sessions: realtime provider not configured: %v", err)
			captureError(req, err, "realtime provider not configured")
			http.Error(w, `{"error": "realtime provider is not configured"}`, http.StatusInternalServerError)
			return
		}
		r.logger.Printf("sessions: realtime session mint failed: %v", err)
		captureError(req, err, "realtime session mint failed")
		http.Error(w, `{"error": "realtime_session_failed"}`, http.StatusBadGateway)
		return
	}

	sessionID := uuid.NewString()
	token, err := r.mintConversationToken(sessionID, nowUTC().Add(r.sessions.TTL()))
	if err != nil {
		r.logger.Printf("sessions: failed to mint conversation token: %v", err)
		captureError(req, err, "conversation token mint failed")
		http.Error(w, `{"error": "failed to create session"}`, http.StatusInternalServerError)
		return
	}

	state := &SessionState{
		ID:                sessionID,
		ConversationToken: token,
		Checklist:         moderator.ChecklistOrder,
	}
	if !r.sessions.Put(state) {
		http.Error(w, `{"error": "server is shutting down"}`, http.StatusServiceUnavailable)
		return
	}

	if err := r.store.InsertSession(req.Context(), store.Session{
		ID:        sessionID,
		Provider:  r.cfg.Provider,
		Model:     r.cfg.RealtimeModel,
		Voice:     r.cfg.VoiceName,
		CreatedAt: state.CreatedAt,
		ExpiresAt: state.ExpiresAt,
	}); err != nil {
		// Audit only; the session itself is fine.
		r.logger.Printf("sessions: failed to persist session %s: %v", sessionID, err)
	}

	r.eventLog.LogAsync(sessionID, eventlog.EventSessionCreated, map[string]any{
		"provider": r.cfg.Provider,
		"model":    r.cfg.RealtimeModel,
	})
	r.discord.NotifySessionCreated(context.Background(), sessionID, r.cfg.Provider, r.cfg.RealtimeModel)

	r.logger.Printf("sessions: created %s (provider=%s, model=%s)", sessionID, r.cfg.Provider, r.cfg.RealtimeModel)

	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:         sessionID,
		ConversationToken: token,
		Provider:          r.cfg.Provider,
		Model:             r.cfg.RealtimeModel,
		WebRTCURL:         minted.WebRTCURL,
		EphemeralKey:      minted.EphemeralKey,
		ExpiresAt:         minted.ExpiresAt,
		VoiceName:         r.cfg.VoiceName,
		Checklist:         moderator.ChecklistOrder,
	})
}
