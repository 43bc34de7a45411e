package memory

import (
	"sync"

	"live-trivia-service/internal/app"
)

// SessionRegistry is the in-memory implementation of app.SessionRegistry.
// It is the process-scoped source of truth for live rooms: created at startup,
// cleared when the process exits.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*app.Session),
	}
}

func (r *SessionRegistry) Reserve(pin string, session *app.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.sessions[pin]; taken {
		return false
	}
	r.sessions[pin] = session
	return true
}

func (r *SessionRegistry) Get(pin string) (*app.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[pin]
	return session, ok
}

func (r *SessionRegistry) Remove(pin string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, pin)
}

func (r *SessionRegistry) List() []*app.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*app.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}
