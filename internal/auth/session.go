package auth

import (
	"sync"

	"github.com/myfood/myfood-backend/internal/domain"
)

// Session holds the signed-in user of this installation. The zero value is an
// empty session; it is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	user *domain.User
}

func NewSession() *Session {
	return &Session{}
}

// Set replaces the current user. A copy is stored.
func (s *Session) Set(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

// Get returns a copy of the current user, or nil when nobody is signed in.
func (s *Session) Get() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
