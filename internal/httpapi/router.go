package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jprochazka/coach/internal/eventlog"
	"github.com/jprochazka/coach/internal/moderator"
	"github.com/jprochazka/coach/internal/notifications"
	"github.com/jprochazka/coach/internal/prompts"
	"github.com/jprochazka/coach/internal/realtime"
	"github.com/jprochazka/coach/internal/store"
)

type RouterConfig struct {
	PublicBaseURL string

	// Realtime session settings
	Provider      string
	RealtimeModel string
	VoiceName     string

	// Conversation tokens
	JWTSecret string

	// Notifications
	DiscordWebhookURL string

	// APNs Push Notifications
	APNsKeyPath    string // Path to .p8 key file
	APNsKeyID      string // Key ID from Apple Developer Portal
	APNsTeamID     string // Team ID from Apple Developer Portal
	APNsBundleID   string // Supervisor app bundle ID
	APNsProduction bool   // Use production environment
}

// GuidanceEngine analyses an interview transcript into coaching guidance.
type GuidanceEngine interface {
	Analyse(ctx context.Context, segments []moderator.Segment) (*moderator.GuidanceResult, error)
}

type Router struct {
	cfg      RouterConfig
	logger   *log.Logger
	engine   GuidanceEngine
	prompts  *prompts.Bundle
	realtime realtime.Provider
	sessions *SessionRegistry
	store    *store.Store
	eventLog *eventlog.Logger
	discord  *notifications.Discord
	apns     *notifications.APNsClient
	mux      *http.ServeMux
}

func NewRouter(cfg RouterConfig, logger *log.Logger, engine GuidanceEngine, bundle *prompts.Bundle,
	provider realtime.Provider, sessions *SessionRegistry, s *store.Store, eventLog *eventlog.Logger) http.Handler {

	// Initialize APNs client (may be nil if not configured)
	apnsClient, err := notifications.NewAPNsClient(notifications.APNsConfig{
		KeyPath:    cfg.APNsKeyPath,
		KeyID:      cfg.APNsKeyID,
		TeamID:     cfg.APNsTeamID,
		BundleID:   cfg.APNsBundleID,
		Production: cfg.APNsProduction,
	}, logger)
	if err != nil {
		logger.Printf("Warning: APNs client initialization failed: %v", err)
	}

	r := &Router{
		cfg:      cfg,
		logger:   logger,
		engine:   engine,
		prompts:  bundle,
		realtime: provider,
		sessions: sessions,
		store:    s,
		eventLog: eventLog,
		discord:  notifications.NewDiscord(cfg.DiscordWebhookURL, logger),
		apns:     apnsClient,
		mux:      http.NewServeMux(),
	}

	r.routes()
	return withSentryRecovery(withCORS(r.mux))
}

func (r *Router) routes() {
	// Health check
	r.mux.HandleFunc("GET /healthz", r.handleHealthz)

	// Realtime interview sessions
	r.mux.HandleFunc("POST /api/sessions", r.handleCreateSession)

	// Moderator guidance
	r.mux.HandleFunc("POST /api/moderator/guidance", r.handleGuidance)
	r.mux.HandleFunc("GET /api/moderator/stream", r.handleGuidanceStream)

	// Supervisor push notifications
	r.mux.HandleFunc("POST /api/push/register", r.handlePushRegister)
	r.mux.HandleFunc("POST /api/push/unregister", r.handlePushUnregister)
}

func (r *Router) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withSentryRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(req)
				hub.RecoverWithContext(req.Context(), err)
				hub.Flush(2 * time.Second)
				http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, req)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func nowUTC() time.Time { return time.Now().UTC() }

// captureError sends an error to Sentry with request context
func captureError(req *http.Request, err error, msg string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(req)
		scope.SetExtra("message", msg)
		sentry.CaptureException(err)
	})
}
