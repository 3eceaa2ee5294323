package store

import (
	"context"
	"time"
)

// DevicePushToken is a supervisor device registered for tone-alert push
// notifications.
type DevicePushToken struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"` // "ios" or "android"
	CreatedAt time.Time `json:"created_at"`
}

// RegisterPushToken registers or refreshes a supervisor device push token.
func (s *Store) RegisterPushToken(ctx context.Context, token, platform string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO device_push_tokens (token, platform)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET
			platform = EXCLUDED.platform,
			created_at = NOW()
	`, token, platform)
	return err
}

// UnregisterPushToken removes a supervisor device push token.
func (s *Store) UnregisterPushToken(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM device_push_tokens WHERE token = $1
	`, token)
	return err
}

// ListPushTokens returns all registered supervisor device tokens.
func (s *Store) ListPushTokens(ctx context.Context) ([]DevicePushToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, token, platform, created_at
		FROM device_push_tokens
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []DevicePushToken
	for rows.Next() {
		var t DevicePushToken
		if err := rows.Scan(&t.ID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
