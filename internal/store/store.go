// Package store is the optional audit persistence layer. Transcripts are
// never stored; only session records and supervisor push tokens are.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Session is the audit record of a minted interview session.
type Session struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Voice     string    `json:"voice"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InsertSession records a newly minted session. A nil store skips the write.
func (s *Store) InsertSession(ctx context.Context, sess Session) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO sessions (id, provider, model, voice, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sess.ID, sess.Provider, sess.Model, sess.Voice, sess.CreatedAt, sess.ExpiresAt)
	return err
}

// GetSession returns one session audit record.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(ctx, `
		SELECT id, provider, model, voice, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(&sess.ID, &sess.Provider, &sess.Model, &sess.Voice, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
