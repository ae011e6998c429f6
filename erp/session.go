package erp

import (
	"context"
	"sync"
	"time"
)

// SessionTTL is how long an ERP session id is trusted before the next
// caller triggers a fresh login.
const SessionTTL = 10 * time.Minute

// LoginFunc performs the ERP login call and returns a session id.
type LoginFunc func(ctx context.Context) (string, error)

// SessionCache hands out a cached ERP session id, logging in again only
// once the TTL has elapsed. A failed login leaves the cached state
// untouched; retrying is up to the caller.
type SessionCache struct {
	mu    sync.Mutex
	login LoginFunc
	ttl   time.Duration
	now   func() time.Time

	token      string
	obtainedAt time.Time
}

func NewSessionCache(login LoginFunc, ttl time.Duration) *SessionCache {
	return &SessionCache{
		login: login,
		ttl:   ttl,
		now:   time.Now,
	}
}

// SessionID returns the cached session id, performing at most one login
// call per TTL window.
func (s *SessionCache) SessionID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Sub(s.obtainedAt) < s.ttl {
		return s.token, nil
	}

	token, err := s.login(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.obtainedAt = s.now()

	return s.token, nil
}
