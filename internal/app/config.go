package app

import (
	"os"
	"time"
)

type Config struct {
	HTTPAddr      string
	PublicBaseURL string
	LogLevel      string
	SentryDSN     string

	// Moderator LLM provider ("openai" or "azure")
	Provider                 string
	OpenAIAPIKey             string
	OpenAIModeratorModel     string
	AzureOpenAIEndpoint      string
	AzureOpenAIKey           string
	AzureOpenAIAPIVersion    string
	AzureModeratorDeployment string

	// Realtime audio sessions
	RealtimeModel         string
	AzureRealtimeEndpoint string
	VoiceName             string

	// Prompt markdown overrides (empty = embedded defaults)
	PromptDir string

	// Audit persistence (optional)
	DatabaseURL string

	// Conversation tokens
	JWTSecret  string
	SessionTTL time.Duration

	// Notifications
	DiscordWebhookURL string

	// APNs push notifications (supervisor tone alerts)
	APNsKeyPath    string
	APNsKeyID      string
	APNsTeamID     string
	APNsBundleID   string
	APNsProduction bool
}

func LoadConfigFromEnv() Config {
	sessionTTL, err := time.ParseDuration(getenv("SESSION_TTL", "30m"))
	if err != nil {
		sessionTTL = 30 * time.Minute
	}

	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),

		// Moderator LLM provider
		Provider:                 getenv("PROVIDER", "azure"),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIModeratorModel:     getenv("OPENAI_MODERATOR_MODEL", "gpt-4o-mini"),
		AzureOpenAIEndpoint:      os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIKey:           os.Getenv("AZURE_OPENAI_KEY"),
		AzureOpenAIAPIVersion:    getenv("AZURE_OPENAI_API_VERSION", "2024-05-01-preview"),
		AzureModeratorDeployment: os.Getenv("AZURE_OPENAI_MODERATOR_DEPLOYMENT"),

		// Realtime audio sessions
		RealtimeModel:         getenv("REALTIME_MODEL", "gpt-realtime"),
		AzureRealtimeEndpoint: os.Getenv("AZURE_OPENAI_REALTIME_ENDPOINT"),
		VoiceName:             getenv("VOICE_NAME", "alloy"),

		PromptDir:   os.Getenv("PROMPT_DIR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Conversation tokens (unsigned opaque tokens when unset)
		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: sessionTTL,

		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),

		APNsKeyPath:    os.Getenv("APNS_KEY_PATH"),
		APNsKeyID:      os.Getenv("APNS_KEY_ID"),
		APNsTeamID:     os.Getenv("APNS_TEAM_ID"),
		APNsBundleID:   os.Getenv("APNS_BUNDLE_ID"),
		APNsProduction: getenvBool("APNS_PRODUCTION", false),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return def
	}
}
