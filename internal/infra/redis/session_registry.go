package redis

import (
	"context"
	"sync"
	"time"

	"live-trivia-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionRegistry is a Redis-aware implementation of app.SessionRegistry.
// Notes:
//   - The local in-memory map stays authoritative: a room's state machine,
//     timer, and broadcast wiring only exist in this process.
//   - Redis marks room liveness under game:session:{pin}, which lets external
//     tooling see which PINs are in play (and could back cross-instance
//     routing later).
type SessionRegistry struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(pin), "1", r.ttl).Err()
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
	if _, ok := r.sessions[pin]; !ok {
		return
	}
	delete(r.sessions, pin)
	_ = r.client.Del(context.Background(), r.key(pin)).Err()
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

func (r *SessionRegistry) key(pin string) string {
	return "game:session:" + pin
}
