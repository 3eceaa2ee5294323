package httpapi

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jprochazka/coach/internal/moderator"
)

const defaultSessionTTL = 30 * time.Minute

// SessionState tracks one live interview session.
type SessionState struct {
	ID                string
	ConversationToken string
	CreatedAt         time.Time
	ExpiresAt         time.Time
	Checklist         []moderator.ChecklistItem
}

// SessionRegistry tracks live sessions in memory and supports graceful
// draining: once draining starts, new sessions and new guidance work are
// rejected while in-flight work finishes naturally.
//
// The mu mutex makes the draining check and wg.Add atomic in Acquire,
// preventing a race where StartDraining+Wait could slip between the check
// and the increment.
type SessionRegistry struct {
	mu       sync.Mutex
	draining bool
	sessions map[string]*SessionState
	ttl      time.Duration
	wg       sync.WaitGroup
	inflight atomic.Int64
}

// NewSessionRegistry creates a registry whose sessions expire after ttl.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRegistry{
		sessions: make(map[string]*SessionState),
		ttl:      ttl,
	}
}

// TTL returns the session lifetime.
func (sr *SessionRegistry) TTL() time.Duration { return sr.ttl }

// Put registers a new session, stamping CreatedAt/ExpiresAt. Returns false
// if the registry is draining.
func (sr *SessionRegistry) Put(s *SessionState) bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	if sr.draining {
		return false
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.ExpiresAt = now.Add(sr.ttl)
	sr.sessions[s.ID] = s
	return true
}

// Get returns the session with the given id, or nil if it is unknown or
// expired. Expired sessions are removed lazily.
func (sr *SessionRegistry) Get(id string) *SessionState {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	s, ok := sr.sessions[id]
	if !ok {
		return nil
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		delete(sr.sessions, id)
		return nil
	}
	return s
}

// Remove drops a session from the registry.
func (sr *SessionRegistry) Remove(id string) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	delete(sr.sessions, id)
}

// Len returns the number of tracked sessions, including not-yet-reaped
// expired ones.
func (sr *SessionRegistry) Len() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return len(sr.sessions)
}

// Acquire marks one unit of guidance work in flight. Returns false if the
// registry is draining, meaning no new work should be accepted.
func (sr *SessionRegistry) Acquire() bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	if sr.draining {
		return false
	}
	sr.wg.Add(1)
	sr.inflight.Add(1)
	return true
}

// Release marks a unit of work as completed. Must be called exactly once per
// successful Acquire.
func (sr *SessionRegistry) Release() {
	sr.inflight.Add(-1)
	sr.wg.Done()
}

// StartDraining sets the draining flag so future Put and Acquire calls
// return false.
func (sr *SessionRegistry) StartDraining() {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.draining = true
}

// IsDraining reports whether the registry is in draining mode.
func (sr *SessionRegistry) IsDraining() bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.draining
}

// InFlight returns the number of guidance calls currently in flight.
func (sr *SessionRegistry) InFlight() int64 {
	return sr.inflight.Load()
}

// Wait blocks until all in-flight work has completed.
func (sr *SessionRegistry) Wait() {
	sr.wg.Wait()
}
