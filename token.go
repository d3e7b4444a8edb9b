package calendarApi

import (
	"strings"
	"sync"
)

// TokenStore keeps the admin bearer token for the lifetime of a session
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *TokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

func (s *TokenStore) Clear() {
	s.Set("")
}

func (s *TokenStore) Has() bool {
	return s.Get() != ""
}
