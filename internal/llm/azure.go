package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// AzureClient implements the Client interface against an Azure OpenAI
// deployment. The wire format matches OpenAI chat completions; only the URL
// shape and auth header differ.
type AzureClient struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
}

// AzureConfig holds configuration for the Azure OpenAI client.
type AzureConfig struct {
	Endpoint   string // e.g., "https://myresource.openai.azure.com"
	APIKey     string
	Deployment string // chat model deployment name
	APIVersion string
	HTTPClient *http.Client
}

// NewAzureClient creates a new Azure OpenAI client.
func NewAzureClient(cfg AzureConfig) *AzureClient {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-05-01-preview"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &AzureClient{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		deployment: cfg.Deployment,
		apiVersion: apiVersion,
		httpClient: httpClient,
	}
}

func (c *AzureClient) url() string {
	return c.endpoint + "/openai/deployments/" + c.deployment + "/chat/completions?api-version=" + c.apiVersion
}

// Complete runs a single completion and returns the generated text.
func (c *AzureClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := chatRequest{
		// Azure routes by deployment; the model field is echoed back but
		// still expected by some API versions.
		Model:       c.deployment,
		Messages:    buildMessages(req),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	httpReq, err := newChatRequest(ctx, c.url(), body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("api-key", c.apiKey)

	return doChatRequest(c.httpClient, httpReq)
}
