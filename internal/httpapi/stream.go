package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jprochazka/coach/internal/eventlog"
	"github.com/jprochazka/coach/internal/moderator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamFrame is one client message on the guidance stream: the full
// transcript so far, analysed the same way as a guidance poll.
type streamFrame struct {
	Transcript []moderator.Segment `json:"transcript"`
}

type streamError struct {
	Error string `json:"error"`
}

// handleGuidanceStream serves a WebSocket alternative to polling: the client
// pushes transcript snapshots and receives guidance results on the same
// connection. Query params: session_id, token (conversation token, since
// browsers cannot set headers on WebSocket upgrades).
func (r *Router) handleGuidanceStream(w http.ResponseWriter, req *http.Request) {
	sessionID := req.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, `{"error": "session_id is required"}`, http.StatusBadRequest)
		return
	}
	sess := r.sessions.Get(sessionID)
	if sess == nil {
		http.Error(w, `{"error": "session_not_found"}`, http.StatusNotFound)
		return
	}
	if !r.verifyConversationToken(req.URL.Query().Get("token"), sessionID) {
		http.Error(w, `{"error": "invalid conversation token"}`, http.StatusUnauthorized)
		return
	}
	if !r.sessions.Acquire() {
		http.Error(w, `{"error": "server is shutting down"}`, http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.sessions.Release()
		r.logger.Printf("stream: upgrade failed for session %s: %v", sessionID, err)
		return
	}
	defer r.sessions.Release()
	defer conn.Close()

	r.logger.Printf("stream: session %s connected", sessionID)

	for {
		var frame streamFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				r.logger.Printf("stream: session %s read error: %v", sessionID, err)
			}
			return
		}

		result, err := r.engine.Analyse(req.Context(), frame.Transcript)
		if err != nil {
			r.eventLog.LogAsync(sessionID, eventlog.EventGuidanceFailed, map[string]any{"error": err.Error()})
			code := "guidance_failed"
			if errors.Is(err, moderator.ErrNotConfigured) {
				code = "moderator_not_configured"
			}
			r.logger.Printf("stream: session %s analyse failed: %v", sessionID, err)
			if err := conn.WriteJSON(streamError{Error: code}); err != nil {
				return
			}
			continue
		}

		r.eventLog.LogAsync(sessionID, eventlog.EventGuidanceGenerated, map[string]any{
			"guidance_id":   result.GuidanceID,
			"missing_items": len(result.MissingItems),
			"tone":          toneValue(result.ToneAlert),
		})
		if result.ToneAlert != nil && *result.ToneAlert == moderator.ToneNegative {
			r.notifyToneAlert(sessionID, frame.Transcript)
		}

		if err := conn.WriteJSON(result); err != nil {
			r.logger.Printf("stream: session %s write error: %v", sessionID, err)
			return
		}
	}
}
