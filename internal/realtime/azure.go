package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	azureSessionAPIVersion = "2025-04-01-preview"

	// Azure ephemeral keys are valid for about a minute; the browser must
	// open its WebRTC connection promptly.
	ephemeralKeyTTL = 60 * time.Second
)

// AzureProvider mints realtime sessions against Azure OpenAI.
type AzureProvider struct {
	endpoint   string
	apiKey     string
	webrtcURL  string
	httpClient *http.Client
}

// AzureConfig holds configuration for the Azure realtime provider.
type AzureConfig struct {
	Endpoint   string // Azure OpenAI resource endpoint
	APIKey     string
	WebRTCURL  string // realtime WebRTC gateway URL handed to the browser
	HTTPClient *http.Client
}

// NewAzureProvider creates a new Azure realtime provider.
func NewAzureProvider(cfg AzureConfig) *AzureProvider {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &AzureProvider{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		webrtcURL:  cfg.WebRTCURL,
		httpClient: httpClient,
	}
}

type mintRequest struct {
	Model         string        `json:"model"`
	Voice         string        `json:"voice"`
	Instructions  string        `json:"instructions"`
	Modalities    []string      `json:"modalities"`
	TurnDetection turnDetection `json:"turn_detection"`
}

type turnDetection struct {
	Type      string  `json:"type"`
	Threshold float64 `json:"threshold"`
}

type mintResponse struct {
	ClientSecret struct {
		Value string `json:"value"`
	} `json:"client_secret"`
}

// MintSession creates an ephemeral realtime session and returns the key the
// browser uses to connect.
func (p *AzureProvider) MintSession(ctx context.Context, cfg SessionConfig) (*Minted, error) {
	if p.endpoint == "" || p.apiKey == "" || p.webrtcURL == "" {
		return nil, ErrNotConfigured
	}

	sessionURL := p.endpoint + "/openai/realtimeapi/sessions?api-version=" + azureSessionAPIVersion
	body, err := json.Marshal(mintRequest{
		Model:         cfg.Model,
		Voice:         cfg.Voice,
		Instructions:  cfg.Instructions,
		Modalities:    []string{"audio", "text"},
		TurnDetection: turnDetection{Type: "server_vad", Threshold: 0.5},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", sessionURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("azure session mint failed: %s - %s", resp.Status, string(respBody))
	}

	var minted mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&minted); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if minted.ClientSecret.Value == "" {
		return nil, fmt.Errorf("azure response missing client_secret.value")
	}

	return &Minted{
		EphemeralKey: minted.ClientSecret.Value,
		ExpiresAt:    time.Now().UTC().Add(ephemeralKeyTTL),
		WebRTCURL:    p.webrtcURL,
	}, nil
}
