package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jprochazka/coach/internal/eventlog"
	"github.com/jprochazka/coach/internal/httpapi"
	"github.com/jprochazka/coach/internal/llm"
	"github.com/jprochazka/coach/internal/moderator"
	"github.com/jprochazka/coach/internal/prompts"
	"github.com/jprochazka/coach/internal/realtime"
	"github.com/jprochazka/coach/internal/store"
)

type App struct {
	cfg        Config
	logger     *log.Logger
	db         *pgxpool.Pool
	store      *store.Store
	eventLog   *eventlog.Logger
	prompts    *prompts.Bundle
	engine     *moderator.Engine
	realtime   realtime.Provider
	sessions   *httpapi.SessionRegistry
	httpClient *http.Client // Shared HTTP client with connection pooling for provider calls
}

func New(cfg Config, logger *log.Logger) (*App, error) {
	bundle, err := prompts.Load(cfg.PromptDir)
	if err != nil {
		return nil, err
	}

	// Shared HTTP client with connection pooling for the OpenAI/Azure
	// endpoints. Keeps TCP connections alive between guidance polls.
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	lex := moderator.DefaultLexicon()
	client := completionClient(cfg, httpClient, logger)
	composer := moderator.NewComposer(client, lex, bundle.ChecklistText, bundle.Moderator)
	engine := moderator.NewEngine(lex, composer)

	provider := realtime.NewAzureProvider(realtime.AzureConfig{
		Endpoint:   cfg.AzureOpenAIEndpoint,
		APIKey:     cfg.AzureOpenAIKey,
		WebRTCURL:  cfg.AzureRealtimeEndpoint,
		HTTPClient: httpClient,
	})

	var db *pgxpool.Pool
	var s *store.Store
	var el *eventlog.Logger
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, err
		}
		s = store.New(db)
		el = eventlog.New(db)
	} else {
		logger.Printf("DATABASE_URL not set, audit persistence disabled")
		el = eventlog.New(nil)
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		store:      s,
		eventLog:   el,
		prompts:    bundle,
		engine:     engine,
		realtime:   provider,
		sessions:   httpapi.NewSessionRegistry(cfg.SessionTTL),
		httpClient: httpClient,
	}, nil
}

// completionClient picks the moderator completion provider from config.
// Returns nil when no provider is configured; the engine then surfaces
// the configuration error per call instead of at startup.
func completionClient(cfg Config, httpClient *http.Client, logger *log.Logger) llm.Client {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Printf("moderator: OPENAI_API_KEY not set, guidance disabled")
			return nil
		}
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModeratorModel,
			HTTPClient: httpClient,
		})
	case "azure":
		if cfg.AzureOpenAIEndpoint == "" || cfg.AzureOpenAIKey == "" || cfg.AzureModeratorDeployment == "" {
			logger.Printf("moderator: Azure OpenAI credentials incomplete, guidance disabled")
			return nil
		}
		return llm.NewAzureClient(llm.AzureConfig{
			Endpoint:   cfg.AzureOpenAIEndpoint,
			APIKey:     cfg.AzureOpenAIKey,
			Deployment: cfg.AzureModeratorDeployment,
			APIVersion: cfg.AzureOpenAIAPIVersion,
			HTTPClient: httpClient,
		})
	default:
		logger.Printf("moderator: unsupported provider %q, guidance disabled", cfg.Provider)
		return nil
	}
}

func (a *App) Router() http.Handler {
	routerCfg := httpapi.RouterConfig{
		PublicBaseURL:     a.cfg.PublicBaseURL,
		Provider:          a.cfg.Provider,
		RealtimeModel:     a.cfg.RealtimeModel,
		VoiceName:         a.cfg.VoiceName,
		JWTSecret:         a.cfg.JWTSecret,
		DiscordWebhookURL: a.cfg.DiscordWebhookURL,
		APNsKeyPath:       a.cfg.APNsKeyPath,
		APNsKeyID:         a.cfg.APNsKeyID,
		APNsTeamID:        a.cfg.APNsTeamID,
		APNsBundleID:      a.cfg.APNsBundleID,
		APNsProduction:    a.cfg.APNsProduction,
	}
	return httpapi.NewRouter(routerCfg, a.logger, a.engine, a.prompts, a.realtime, a.sessions, a.store, a.eventLog)
}

// Sessions exposes the session registry for shutdown draining.
func (a *App) Sessions() *httpapi.SessionRegistry {
	return a.sessions
}

func (a *App) Close() error {
	if a.db != nil {
		a.db.Close()
	}
	return nil
}
