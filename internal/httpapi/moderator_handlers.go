package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jprochazka/coach/internal/eventlog"
	"github.com/jprochazka/coach/internal/moderator"
	"github.com/jprochazka/coach/internal/notifications"
)

type guidanceRequest struct {
	SessionID  string              `json:"session_id"`
	Transcript []moderator.Segment `json:"transcript"`
}

// handleGuidance runs one moderator analysis over the submitted transcript.
func (r *Router) handleGuidance(w http.ResponseWriter, req *http.Request) {
	var body guidanceRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if body.SessionID == "" {
		http.Error(w, `{"error": "session_id is required"}`, http.StatusBadRequest)
		return
	}

	sess := r.sessions.Get(body.SessionID)
	if sess == nil {
		http.Error(w, `{"error": "session_not_found"}`, http.StatusNotFound)
		return
	}
	if !r.verifyConversationToken(bearerToken(req), body.SessionID) {
		http.Error(w, `{"error": "invalid conversation token"}`, http.StatusUnauthorized)
		return
	}

	if !r.sessions.Acquire() {
		http.Error(w, `{"error": "server is shutting down"}`, http.StatusServiceUnavailable)
		return
	}
	defer r.sessions.Release()

	result, err := r.engine.Analyse(req.Context(), body.Transcript)
	if err != nil {
		r.writeGuidanceError(w, req, sess.ID, err)
		return
	}

	r.eventLog.LogAsync(sess.ID, eventlog.EventGuidanceGenerated, map[string]any{
		"guidance_id":   result.GuidanceID,
		"missing_items": len(result.MissingItems),
		"tone":          toneValue(result.ToneAlert),
	})
	if result.ToneAlert != nil && *result.ToneAlert == moderator.ToneNegative {
		r.notifyToneAlert(sess.ID, body.Transcript)
	}

	writeJSON(w, http.StatusOK, result)
}

// writeGuidanceError maps engine failures onto the API error contract:
// configuration problems are server errors, provider failures are bad
// gateway. No partial result is ever written.
func (r *Router) writeGuidanceError(w http.ResponseWriter, req *http.Request, sessionID string, err error) {
	r.eventLog.LogAsync(sessionID, eventlog.EventGuidanceFailed, map[string]any{"error": err.Error()})

	var upstream *moderator.UpstreamError
	switch {
	case errors.Is(err, moderator.ErrNotConfigured):
		r.logger.Printf("moderator: not configured: %v", err)
		captureError(req, err, "moderator not configured")
		http.Error(w, `{"error": "moderator_not_configured"}`, http.StatusInternalServerError)
	case errors.As(err, &upstream):
		r.logger.Printf("moderator: guidance call failed: %v", err)
		captureError(req, err, "guidance completion failed")
		http.Error(w, `{"error": "guidance_failed"}`, http.StatusBadGateway)
	default:
		r.logger.Printf("moderator: analyse failed: %v", err)
		captureError(req, err, "moderator analyse failed")
		http.Error(w, `{"error": "guidance_failed"}`, http.StatusInternalServerError)
	}
}

// notifyToneAlert fans a negative tone signal out to supervisors. Best
// effort; never affects the guidance response.
func (r *Router) notifyToneAlert(sessionID string, segments []moderator.Segment) {
	last := lastCustomerUtterance(segments)

	r.eventLog.LogAsync(sessionID, eventlog.EventToneAlert, map[string]any{"last_utterance": last})
	r.discord.NotifyToneAlert(context.Background(), sessionID, last)

	if r.apns == nil || r.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		tokens, err := r.store.ListPushTokens(ctx)
		if err != nil {
			r.logger.Printf("moderator: failed to list push tokens: %v", err)
			return
		}
		for _, t := range tokens {
			if t.Platform != "ios" {
				continue
			}
			_ = r.apns.SendToneAlert(t.Token, notifications.ToneAlert{
				SessionID:     sessionID,
				Tone:          string(moderator.ToneNegative),
				LastUtterance: last,
			})
		}
	}()
}

func lastCustomerUtterance(segments []moderator.Segment) string {
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Actor == moderator.ActorCustomer {
			return segments[i].Text
		}
	}
	return ""
}

func toneValue(tone *moderator.Tone) string {
	if tone == nil {
		return ""
	}
	return string(*tone)
}
