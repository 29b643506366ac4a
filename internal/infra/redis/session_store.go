package redis

import (
	"context"
	"sync"
	"time"

	"trivia-duel-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - The session records themselves stay in a local in-memory map so the
//     per-session mutex and broadcast logic keep working unchanged.
//   - Redis marks game-code liveness, which also makes codes visible across
//     instances (and could be extended to cross-instance pub/sub routing).
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Claim(id string, session *app.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.sessions[id]; taken {
		return false
	}
	// SETNX so a code claimed by another instance also counts as a collision.
	ok, err := s.client.SetNX(context.Background(), s.key(id), "1", s.ttl).Result()
	if err == nil && !ok {
		return false
	}
	s.sessions[id] = session
	return true
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "duel:session:" + id
}
