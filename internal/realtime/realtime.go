// Package realtime mints ephemeral realtime audio sessions for the browser
// client. The backend never relays audio; it hands out a short-lived key and
// the WebRTC gateway URL and steps out of the way.
package realtime

import (
	"context"
	"errors"
	"time"
)

// SessionConfig describes the realtime audio session to mint.
type SessionConfig struct {
	Model        string
	Voice        string
	Instructions string
}

// Minted is an ephemeral realtime session handed to the browser.
type Minted struct {
	EphemeralKey string
	ExpiresAt    time.Time
	WebRTCURL    string
}

// ErrNotConfigured is returned when the provider credentials are missing.
var ErrNotConfigured = errors.New("realtime: provider credentials are missing")

// Provider mints ephemeral realtime sessions.
type Provider interface {
	MintSession(ctx context.Context, cfg SessionConfig) (*Minted, error)
}
